package services

import (
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

func monthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// monthOfDate returns the YYYY-MM prefix of a YYYY-MM-DD date.
func monthOfDate(date string) string {
	if len(date) < len(monthLayout) {
		return date
	}
	return date[:len(monthLayout)]
}

// dueDateIn places dueDay inside the given month, clamped to its last day.
func dueDateIn(year int, month time.Month, dueDay int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if dueDay > last {
		dueDay = last
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, loc)
}

// NextDueDate is dueDay in the current month, or in the next month when that
// day has already passed.
func NextDueDate(now time.Time, dueDay int) string {
	due := dueDateIn(now.Year(), now.Month(), dueDay, now.Location())
	if now.Day() > due.Day() {
		due = dueDateIn(now.Year(), now.Month()+1, dueDay, now.Location())
	}
	return due.Format(dateLayout)
}

// FollowingDueDate is the due date of the instance after a bill due on
// prevDue. Missed cycles are not replayed: if the month after prevDue is
// already behind now, the next upcoming due date is used instead.
func FollowingDueDate(prevDue string, dueDay int, now time.Time) string {
	upcoming := NextDueDate(now, dueDay)
	prev, err := time.ParseInLocation(dateLayout, prevDue, now.Location())
	if err != nil {
		return upcoming
	}
	following := dueDateIn(prev.Year(), prev.Month()+1, dueDay, now.Location()).Format(dateLayout)
	if following < upcoming {
		return upcoming
	}
	return following
}

// lastMonths returns n month starts ending with the month of now, oldest first.
func lastMonths(now time.Time, n int) []time.Time {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = start.AddDate(0, i-(n-1), 0)
	}
	return out
}
