package task

import (
	"time"

	"github.com/tasker-cli/tasker/internal/date"
)

// NextOccurrence computes the due date of the single follow-up instance
// for a recurring task. Monthly additions clamp to the last valid day of
// the target month (Jan 31 -> Feb 28/29); Yearly clamps Feb 29 anchors to
// Feb 28 in non-leap years. Unknown patterns return the anchor unchanged.
func NextOccurrence(anchor date.Date, pattern Pattern) date.Date {
	switch pattern {
	case Daily:
		return anchor.AddDays(1)
	case Weekly:
		return anchor.AddDays(7)
	case Monthly:
		return addMonthsClamped(anchor, 1)
	case Yearly:
		return addMonthsClamped(anchor, 12)
	}
	return anchor
}

// addMonthsClamped adds months to the anchor without the day-overflow
// normalization of time.AddDate: a day past the end of the target month
// clamps to that month's last day instead of rolling over.
func addMonthsClamped(anchor date.Date, months int) date.Date {
	year := anchor.Year()
	day := anchor.Day()

	total := int(anchor.Month()) - 1 + months
	year += total / 12
	month := time.Month(total%12 + 1)

	if last := date.DaysInMonth(year, month); day > last {
		day = last
	}
	return date.New(year, month, day)
}
