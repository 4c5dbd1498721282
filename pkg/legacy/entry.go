package legacy

import (
	"strings"
	"time"
)

// Entry is a single pre-migration grant with a fixed validity window.
type Entry struct {
	Email     string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// ActiveOn reports whether the entry is valid on the calendar date of now
// in loc. EndDate is a calendar date taken as written; it is inclusive.
func (e Entry) ActiveOn(now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := e.EndDate.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return !end.Before(dateOf(now, loc))
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
