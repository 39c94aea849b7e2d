package stats

import (
	"sort"
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
)

// WorkedDates returns the set of dates with any work or attendance time.
func WorkedDates(days []ledger.DayEntry, now time.Time) map[string]bool {
	out := make(map[string]bool, len(days))
	for _, d := range days {
		if Worked(d, ModeFor(d, now)) {
			out[d.Date] = true
		}
	}
	return out
}

// Streaks computes the current and longest runs of consecutive worked days.
//
// The current streak walks backwards from today and stops at the first
// missing day, except that today itself being empty does not end the walk.
func Streaks(days []ledger.DayEntry, now time.Time) (current, longest int) {
	worked := WorkedDates(days, now)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i <= len(worked); i++ {
		if worked[today.AddDate(0, 0, -i).Format(ledger.DateLayout)] {
			current++
			continue
		}
		if i > 0 {
			break
		}
	}
	return current, LongestRun(worked)
}

// LongestRun is the longest sequence of consecutive calendar dates in set.
func LongestRun(set map[string]bool) int {
	dates := make([]time.Time, 0, len(set))
	for d := range set {
		if t, err := time.Parse(ledger.DateLayout, d); err == nil {
			dates = append(dates, t)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 0, 0
	for i, t := range dates {
		if i > 0 && dates[i-1].AddDate(0, 0, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
