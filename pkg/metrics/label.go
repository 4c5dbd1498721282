package metrics

import "strings"

const maxLabelLen = 64

// sanitizeLabel truncates long values, replaces spaces and maps an empty
// value to "unknown".
func sanitizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	s = strings.ReplaceAll(s, " ", "_")
	if len(s) > maxLabelLen {
		s = s[:maxLabelLen]
	}
	return s
}
