package commands

import (
	"github.com/spf13/cobra"

	"restaurantops/internal/orchestrator"
)

// RunCommand runs a single (restaurant, date) pipeline.
func RunCommand(env *Env) *cobra.Command {
	var restaurant, date, dataDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline for a single (restaurant, date) pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if restaurant == "" || date == "" {
				return NewConfigError("both --restaurant and --date are required")
			}

			cfg, err := env.LoadConfig(restaurant)
			if err != nil {
				return NewConfigError("load configuration: %v", err)
			}

			ctx := cmd.Context()
			db, closeDB, err := env.DatabaseClient(ctx, cfg)
			if err != nil {
				return NewConfigError("%v", err)
			}
			defer closeDB()

			orc := env.NewOrchestrator(dataDir, cfg, db)
			results, _ := orc.RunBatch(ctx, []orchestrator.Job{{Restaurant: restaurant, Date: date}})
			result := results[0]

			if env.Format == "json" {
				f := newJSONFormatter()
				if result.Success {
					return f.WriteSuccess("run", result, "run completed")
				}
				return f.WriteError("run", result.Error.Message, result.Error.Kind, "")
			}

			f := newTableFormatter()
			if err := f.WriteRunResult(result); err != nil {
				return err
			}
			if !result.Success {
				return &CLIError{Message: "run failed: " + result.Error.Stage + "/" + result.Error.Kind + ": " + result.Error.Message, ExitCode: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&restaurant, "restaurant", "", "restaurant code")
	cmd.Flags().StringVar(&date, "date", "", "business date, YYYY-MM-DD")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "root directory containing per-restaurant CSV exports")

	return cmd
}
