package stats

import (
	"sort"
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/ledger"
)

// ModeFor measures open intervals live only on the day that is today.
func ModeFor(d ledger.DayEntry, now time.Time) hhmm.Mode {
	if d.Date == now.Format(ledger.DateLayout) {
		return hhmm.LiveAt(hhmm.FromTime(now))
	}
	return hhmm.Static
}

// WorkMinutes sums every session of every project entry.
func WorkMinutes(d ledger.DayEntry, mode hhmm.Mode) int {
	total := 0
	for _, pe := range d.Projects {
		total += hhmm.Sum(pe.WorkSessions, mode)
	}
	return total
}

// BreakMinutes sums breaks including lunch.
func BreakMinutes(d ledger.DayEntry, mode hhmm.Mode) int {
	return hhmm.Sum(d.AllBreaks(), mode)
}

// AttendanceMinutes is attendance minus breaks, never negative.
func AttendanceMinutes(d ledger.DayEntry, mode hhmm.Mode) int {
	return max(0, hhmm.Sum(d.Periods(), mode)-BreakMinutes(d, mode))
}

// LocationMinutes partitions AttendanceMinutes by location. Break time is
// taken from each location in proportion to its gross attendance, and any
// rounding remainder goes to the largest location so the parts add up.
func LocationMinutes(d ledger.DayEntry, mode hhmm.Mode) map[ledger.Location]int {
	gross := map[ledger.Location]int{}
	total := 0
	for _, p := range d.Periods() {
		m := hhmm.Duration(p.Start, p.End, mode)
		if m == 0 {
			continue
		}
		gross[ledger.ParseLocation(string(p.Location))] += m
		total += m
	}
	net := AttendanceMinutes(d, mode)
	out := make(map[ledger.Location]int, len(gross))
	if total == 0 || net == 0 {
		return out
	}
	locs := make([]ledger.Location, 0, len(gross))
	for loc := range gross {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if gross[locs[i]] != gross[locs[j]] {
			return gross[locs[i]] > gross[locs[j]]
		}
		return locs[i] < locs[j]
	})
	assigned := 0
	for _, loc := range locs {
		share := gross[loc] * net / total
		out[loc] = share
		assigned += share
	}
	out[locs[0]] += net - assigned
	return out
}

// ProjectMinutes groups session minutes by project id.
func ProjectMinutes(d ledger.DayEntry, mode hhmm.Mode) map[string]int {
	out := map[string]int{}
	for _, pe := range d.Projects {
		if m := hhmm.Sum(pe.WorkSessions, mode); m > 0 {
			out[pe.ProjectID] += m
		}
	}
	return out
}

// Worked reports whether the day has any work or attendance time.
func Worked(d ledger.DayEntry, mode hhmm.Mode) bool {
	return WorkMinutes(d, mode) > 0 || AttendanceMinutes(d, mode) > 0
}
