package repository

import (
	"fmt"
	"time"
)

// timeFormats are the layouts SQLite hands back depending on how a column
// was written: date-only keys, RFC3339 timestamps from the importer, and
// CURRENT_TIMESTAMP defaults.
var timeFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTime parses a stored date or timestamp string, always returning UTC.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}
