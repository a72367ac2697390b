package notes

import (
	"time"

	"github.com/kuitang/daybook/internal/errs"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// DayBounds is the half-open interval [Start, End) covering one calendar
// day in a fixed location. End is the first instant of the following day,
// so a timestamp of 23:59:59.999 on day D falls inside D's bounds and
// outside D+1's.
type DayBounds struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the day.
func (b DayBounds) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// ParseDay parses a YYYY-MM-DD day string into its bounds in loc.
// Returns an invalid_argument error for malformed input.
func ParseDay(day string, loc *time.Location) (DayBounds, error) {
	t, err := time.ParseInLocation(DayFormat, day, loc)
	if err != nil {
		return DayBounds{}, errs.Newf(errs.InvalidArgument, "invalid day %q, expected YYYY-MM-DD", day)
	}
	return BoundsOf(t), nil
}

// BoundsOf returns the bounds of the calendar day containing t, in t's
// location. time.Date normalizes day+1, so DST transitions are handled.
func BoundsOf(t time.Time) DayBounds {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
	return DayBounds{Start: start, End: end}
}

// DayOf returns the YYYY-MM-DD day bucket of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}
