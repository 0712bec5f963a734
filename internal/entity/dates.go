package entity

import (
	"strings"
	"time"
)

// CanonicalDateLayout is the internal date-time form every parsed date is
// rewritten to at ingestion.
const CanonicalDateLayout = "2006-01-02 15:04"

// OutputDateLayout is the form accepted orders carry in the committed batch.
const OutputDateLayout = "02/01/2006 15:04"

// permissiveLayouts are tried in order when canonicalizing model output.
// Date-only layouts default the time to midnight.
var permissiveLayouts = []string{
	CanonicalDateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04",
	"02-01-2006",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"January 2, 2006 15:04",
	"January 2, 2006",
}

// CanonicalizeDateTime parses s permissively and rewrites it to the
// canonical "YYYY-MM-DD HH:MM" form. Unparseable input is returned as-is
// rather than failing; validation flags it later if the field matters.
func CanonicalizeDateTime(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	for _, layout := range permissiveLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(CanonicalDateLayout)
		}
	}
	return s
}

// FormatOutputDate rewrites a canonical "YYYY-MM-DD HH:MM" string to the
// output form "DD/MM/YYYY HH:MM". Input in any other shape is returned
// unchanged, which makes the rewrite idempotent.
func FormatOutputDate(s string) string {
	t, err := time.Parse(CanonicalDateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(OutputDateLayout)
}

func isDateField(name string) bool {
	return strings.Contains(name, "date")
}
