package date

import "fmt"

// Range represents a range of dates, boundaries included.
// A zero From or To leaves that side of the range open.
type Range struct{ From, To Date }

// NewRange returns the range between two dates.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// LastDays returns the range of n days ending on 'on' (included).
func LastDays(on Date, n int) Range {
	if n < 1 {
		n = 1
	}
	return Range{From: on.Add(1 - n), To: on}
}

// Contains return true date is included in the range.
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

func (r Range) String() string {
	switch {
	case r.From.IsZero() && r.To.IsZero():
		return "all time"
	case r.From.IsZero():
		return fmt.Sprintf("until %s", r.To)
	case r.To.IsZero():
		return fmt.Sprintf("since %s", r.From)
	}
	return fmt.Sprintf("%s to %s", r.From, r.To)
}
