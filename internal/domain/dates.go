package domain

import "time"

// DateLayout is the canonical on-disk and wire format for calendar dates.
const DateLayout = "2006-01-02"

// dateLayouts are the accepted input formats, tried in order.
var dateLayouts = []string{DateLayout, "01/02/2006"}

// ParseDate parses a date in ISO (2024-03-01) or US (03/01/2024) form.
// An empty string yields nil; an unparseable string yields ok=false.
func ParseDate(s string) (t *time.Time, ok bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return &parsed, true
		}
	}
	return nil, false
}

// FormatDate renders an optional date, empty when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
