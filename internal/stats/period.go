package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
)

type Period int

const (
	PeriodDay Period = iota
	PeriodWeek
	PeriodMonth
	PeriodAll
)

var periodNames = []string{"day", "week", "month", "all"}

func (p Period) String() string {
	if p < 0 || int(p) >= len(periodNames) {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

func ParsePeriod(s string) (Period, error) {
	for i, name := range periodNames {
		if strings.EqualFold(s, name) {
			return Period(i), nil
		}
	}
	return 0, fmt.Errorf("unknown period %q (want day, week, month or all)", s)
}

// Range is an inclusive span of calendar dates. An empty bound is open.
type Range struct {
	From string
	To   string
}

func (r Range) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

func (r Range) String() string {
	switch {
	case r.From == "" && r.To == "":
		return "all time"
	case r.From == r.To:
		return r.From
	}
	return r.From + " - " + r.To
}

// RangeFor returns the day, Monday-first week, month or all-time range
// containing ref.
func RangeFor(p Period, ref time.Time) Range {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	switch p {
	case PeriodDay:
		d := day.Format(ledger.DateLayout)
		return Range{From: d, To: d}
	case PeriodWeek:
		start := day.AddDate(0, 0, -weekdayIndex(day))
		return Range{From: start.Format(ledger.DateLayout), To: start.AddDate(0, 0, 6).Format(ledger.DateLayout)}
	case PeriodMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Range{From: start.Format(ledger.DateLayout), To: start.AddDate(0, 1, -1).Format(ledger.DateLayout)}
	}
	return Range{}
}

// MonthRange returns the range of a "YYYY-MM" month label.
func MonthRange(month string) (Range, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return Range{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	return Range{From: start.Format(ledger.DateLayout), To: start.AddDate(0, 1, -1).Format(ledger.DateLayout)}, nil
}

// weekdayIndex is the Monday-first position of t's weekday.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayNames are Monday-first.
var WeekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
