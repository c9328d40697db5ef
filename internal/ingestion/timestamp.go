package ingestion

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order against POS export timestamp
// columns (In Date/Out Date/Opened/Created Date), which are not
// consistently formatted across export types.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04 PM",
	"1/2/2006 15:04",
	"2006-01-02 15:04",
	time.RFC3339,
}

// parseTimestamp tries every known layout, returning ok=false if none
// match or the string is empty.
func parseTimestamp(s string) (time.Time, bool) {
	return ParseTimestamp(s)
}

// ParseTimestamp is the exported form of the same layout-fallback parse,
// used by downstream stages (categorization, processing) that need to
// parse POS timestamp columns outside of ingestion itself.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
