// Package stats derives totals, distributions, streaks and heatmaps from a
// ledger state. Nothing here is stored; every figure can be recomputed at
// any time and malformed time values simply contribute nothing.
package stats

import (
	"sort"
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/ledger"
)

type ProjectTotal struct {
	ProjectID string
	Name      string // empty when the project no longer exists
	Color     string
	Minutes   int
}

type WeekdayAverage struct {
	Total   int
	Days    int
	Average float64
}

type Summary struct {
	Range             Range
	WorkMinutes       int
	AttendanceMinutes int
	BreakMinutes      int
	Locations         map[ledger.Location]int
	Projects          []ProjectTotal
	Weekdays          [7]WeekdayAverage // Monday-first
	DaysWorked        int
	AvgClockIn        string
	AvgClockOut       string
}

// Summarize aggregates every day of st inside r. Open intervals are measured
// up to now on the day that is today, and count as zero on any other day.
func Summarize(st ledger.State, r Range, now time.Time) Summary {
	s := Summary{Range: r, Locations: map[ledger.Location]int{}}
	perProject := map[string]int{}
	var inRange []ledger.DayEntry

	for _, d := range st.Days {
		if !r.Contains(d.Date) {
			continue
		}
		inRange = append(inRange, d)
		mode := ModeFor(d, now)

		work := WorkMinutes(d, mode)
		att := AttendanceMinutes(d, mode)
		s.WorkMinutes += work
		s.AttendanceMinutes += att
		s.BreakMinutes += BreakMinutes(d, mode)
		for loc, m := range LocationMinutes(d, mode) {
			s.Locations[loc] += m
		}
		for id, m := range ProjectMinutes(d, mode) {
			perProject[id] += m
		}
		if work > 0 || att > 0 {
			s.DaysWorked++
		}
		if work > 0 {
			if t, err := time.Parse(ledger.DateLayout, d.Date); err == nil {
				w := &s.Weekdays[weekdayIndex(t)]
				w.Total += work
				w.Days++
			}
		}
	}

	for i := range s.Weekdays {
		if s.Weekdays[i].Days > 0 {
			s.Weekdays[i].Average = float64(s.Weekdays[i].Total) / float64(s.Weekdays[i].Days)
		}
	}
	s.Projects = projectTotals(st.Projects, perProject)
	s.AvgClockIn, s.AvgClockOut = ClockAverages(inRange)
	return s
}

func projectTotals(projects []ledger.Project, minutes map[string]int) []ProjectTotal {
	byID := make(map[string]ledger.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	out := make([]ProjectTotal, 0, len(minutes))
	for id, m := range minutes {
		p := byID[id]
		out = append(out, ProjectTotal{ProjectID: id, Name: p.Name, Color: p.Color, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// ClockAverages returns the mean earliest attendance start and mean latest
// attendance end over the given days, as "HH:MM". Days without a usable
// value do not count towards that mean; an empty string means no data.
func ClockAverages(days []ledger.DayEntry) (clockIn, clockOut string) {
	var inSum, inN, outSum, outN int
	for _, d := range days {
		first, last := hhmm.Invalid, hhmm.Invalid
		for _, p := range d.Periods() {
			if s := hhmm.ToMinutes(p.Start); s != hhmm.Invalid && (first == hhmm.Invalid || s < first) {
				first = s
			}
			if e := hhmm.ToMinutes(p.End); e != hhmm.Invalid && e > last {
				last = e
			}
		}
		if first != hhmm.Invalid {
			inSum += first
			inN++
		}
		if last != hhmm.Invalid {
			outSum += last
			outN++
		}
	}
	if inN > 0 {
		clockIn = hhmm.Format((inSum + inN/2) / inN)
	}
	if outN > 0 {
		clockOut = hhmm.Format((outSum + outN/2) / outN)
	}
	return clockIn, clockOut
}
