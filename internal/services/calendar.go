package services

import (
	"time"

	"centavo/internal/models"
)

// monthWindow returns the first instant and the last instant of the given
// calendar month.
func monthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, loc)
	return start, end
}

// fixedOccurrences counts how many monthly occurrences of a fixed
// transaction starting at start have elapsed by windowEnd. The count is by
// calendar months, inclusive of both the start month and the window's end
// month: a transaction starting on any day of a month is active for the
// whole of that month. Day-of-month granularity is deliberately ignored.
func fixedOccurrences(start, windowEnd time.Time) int64 {
	if start.After(windowEnd) {
		return 0
	}
	return int64((windowEnd.Year()-start.Year())*12+int(windowEnd.Month())-int(start.Month())) + 1
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonths advances t by n calendar months, clamping the day-of-month so
// that a Jan 31 start lands on Feb 29/28 instead of overflowing into March.
func addMonths(t time.Time, n int) time.Time {
	y := t.Year()
	m := int(t.Month()) - 1 + n
	y += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)

	day := t.Day()
	if last := daysInMonth(y, month); day > last {
		day = last
	}
	return time.Date(y, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// advanceBy returns start moved forward by steps units of the given
// installment period.
func advanceBy(start time.Time, period models.InstallmentPeriod, steps int) time.Time {
	switch period {
	case models.InstallmentPeriodDays:
		return start.AddDate(0, 0, steps)
	case models.InstallmentPeriodWeeks:
		return start.AddDate(0, 0, 7*steps)
	case models.InstallmentPeriodYears:
		return addMonths(start, 12*steps)
	default:
		return addMonths(start, steps)
	}
}
