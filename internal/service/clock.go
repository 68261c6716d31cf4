package service

import "time"

// Clock supplies "now" to the services so past-date gating is
// deterministic in tests. A nil Clock falls back to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// today returns the clock's calendar date as "YYYY-MM-DD". Dates are
// stored in the same format, so string comparison is date comparison.
func (c Clock) today() string {
	return c.now().Format("2006-01-02")
}
