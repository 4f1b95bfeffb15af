package recurrence

import "time"

// AddMonths shifts t by the given number of months, clamping the day of
// month to the last valid day of the target month (leap years included).
// The time of day and location are preserved. months may be negative or
// zero; the function never fails.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	// Zero-based month index with floored division, so negative shifts
	// carry into earlier years correctly.
	idx := int(month) - 1 + months
	yearShift := idx / 12
	idx %= 12
	if idx < 0 {
		idx += 12
		yearShift--
	}
	targetYear := year + yearShift
	targetMonth := time.Month(idx + 1)

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYears shifts t by whole years with the same day clamping as AddMonths,
// so a Feb 29 anchor lands on Feb 28 in non-leap years.
func AddYears(t time.Time, years int) time.Time {
	return AddMonths(t, 12*years)
}

// daysInMonth returns the number of days in the given month. Day zero of
// the following month normalizes to the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
