package stats

import (
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
)

// DefaultHeatmapDays is sixteen weeks.
const DefaultHeatmapDays = 112

type Cell struct {
	Date    string
	Week    int // column, 0 is the oldest
	Weekday int // row, Monday-first
	Minutes int
}

type Heatmap struct {
	Cells []Cell
	Weeks int
	Max   int
}

// BuildHeatmap lays out work minutes for the trailing window ending today.
// Dates without an entry are present with zero minutes.
func BuildHeatmap(days []ledger.DayEntry, now time.Time, window int) Heatmap {
	if window <= 0 {
		window = DefaultHeatmapDays
	}
	minutes := make(map[string]int, len(days))
	for _, d := range days {
		minutes[d.Date] += WorkMinutes(d, ModeFor(d, now))
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(window - 1))
	offset := weekdayIndex(start)

	h := Heatmap{Cells: make([]Cell, 0, window)}
	for i := 0; i < window; i++ {
		t := start.AddDate(0, 0, i)
		date := t.Format(ledger.DateLayout)
		c := Cell{
			Date:    date,
			Week:    (offset + i) / 7,
			Weekday: weekdayIndex(t),
			Minutes: minutes[date],
		}
		h.Cells = append(h.Cells, c)
		h.Max = max(h.Max, c.Minutes)
	}
	h.Weeks = (offset+window-1)/7 + 1
	return h
}

// Level buckets minutes into 0..4 relative to the heatmap maximum.
func (h Heatmap) Level(minutes int) int {
	if minutes <= 0 || h.Max <= 0 {
		return 0
	}
	return min(4, 1+minutes*4/(h.Max+1))
}
