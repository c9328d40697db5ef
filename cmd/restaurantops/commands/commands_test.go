package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurantops/internal/config"
	"restaurantops/internal/patterns/redisstore"
	"restaurantops/internal/patterns/shardedstore"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := RootCommand()

	runCmd, _, err := root.Find([]string{"run"})
	require.NoError(t, err, "run command should exist")
	assert.Equal(t, "run", runCmd.Use)

	rangeCmd, _, err := root.Find([]string{"run-range"})
	require.NoError(t, err, "run-range command should exist")
	assert.Equal(t, "run-range", rangeCmd.Use)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := RunCommand(&Env{})

	assert.NotNil(t, cmd.Flags().Lookup("restaurant"))
	assert.NotNil(t, cmd.Flags().Lookup("date"))
	assert.NotNil(t, cmd.Flags().Lookup("data-dir"))
}

func TestRunRangeCommandFlags(t *testing.T) {
	cmd := RunRangeCommand(&Env{})

	for _, name := range []string{"restaurants", "from", "to", "workers", "data-dir", "output", "dashboard-out"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected flag %s", name)
	}
}

func TestDateRangeInclusive(t *testing.T) {
	dates, err := dateRange("2026-03-01", "2026-03-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03"}, dates)
}

func TestDateRangeRejectsInverted(t *testing.T) {
	_, err := dateRange("2026-03-03", "2026-03-01")
	assert.Error(t, err)
}

func TestCLIErrorExitCodes(t *testing.T) {
	assert.Equal(t, 2, NewConfigError("bad config").ExitCode)
	assert.Equal(t, 1, NewPartialFailureError(3, 1).ExitCode)
}

func TestPatternStoresFallsBackWithoutRedisURL(t *testing.T) {
	env := &Env{}
	daily, timeslots := env.patternStores(&config.Config{})

	assert.IsType(t, &shardedstore.DailyStore{}, daily)
	assert.IsType(t, &shardedstore.TimeslotStore{}, timeslots)
}

func TestPatternStoresUsesRedisWhenConfigured(t *testing.T) {
	env := &Env{}
	cfg := &config.Config{Secrets: config.Secrets{RedisURL: "redis://localhost:6379/0"}}
	daily, timeslots := env.patternStores(cfg)

	assert.IsType(t, &redisstore.DailyStore{}, daily)
	assert.IsType(t, &redisstore.TimeslotStore{}, timeslots)
}

func TestPatternStoresFallsBackOnInvalidRedisURL(t *testing.T) {
	env := &Env{}
	cfg := &config.Config{Secrets: config.Secrets{RedisURL: "not-a-url"}}
	daily, timeslots := env.patternStores(cfg)

	assert.IsType(t, &shardedstore.DailyStore{}, daily)
	assert.IsType(t, &shardedstore.TimeslotStore{}, timeslots)
}
