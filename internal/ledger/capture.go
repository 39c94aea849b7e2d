package ledger

import (
	"fmt"

	"github.com/sadopc/dayledger/internal/hhmm"
)

func validTime(at string) error {
	if !hhmm.Valid(at) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, at)
	}
	return nil
}

// ClockIn opens an attendance period at the given time.
func (l *Ledger) ClockIn(date, at string, loc Location) (AttendancePeriod, error) {
	if err := validTime(at); err != nil {
		return AttendancePeriod{}, err
	}
	d, err := l.upsertDay(date)
	if err != nil {
		return AttendancePeriod{}, err
	}
	l.promoteLegacyAttendance(d)
	for _, a := range d.Attendance {
		if hhmm.Open(a.Start, a.End) {
			return AttendancePeriod{}, fmt.Errorf("clock in on %s: %w", date, ErrAlreadyOpen)
		}
	}
	p := AttendancePeriod{ID: l.newID(), Start: at, Location: loc}
	d.Attendance = append(d.Attendance, p)
	d.UpdatedAt = l.stamp()
	return p, nil
}

// ClockOut closes every open attendance period of the day.
func (l *Ledger) ClockOut(date, at string) (int, error) {
	if err := validTime(at); err != nil {
		return 0, err
	}
	d, err := l.existingDay(date)
	if err != nil {
		return 0, err
	}
	l.promoteLegacyAttendance(d)
	closed := 0
	for i := range d.Attendance {
		if d.Attendance[i].End == "" {
			d.Attendance[i].End = at
			closed++
		}
	}
	if closed == 0 {
		return 0, fmt.Errorf("clock out on %s: %w", date, ErrNothingOpen)
	}
	d.UpdatedAt = l.stamp()
	return closed, nil
}

func (l *Ledger) StartBreak(date, at string) (Break, error) {
	if err := validTime(at); err != nil {
		return Break{}, err
	}
	d, err := l.upsertDay(date)
	if err != nil {
		return Break{}, err
	}
	for _, b := range d.Breaks {
		if hhmm.Open(b.Start, b.End) {
			return Break{}, fmt.Errorf("start break on %s: %w", date, ErrAlreadyOpen)
		}
	}
	b := Break{ID: l.newID(), Start: at}
	d.Breaks = append(d.Breaks, b)
	d.UpdatedAt = l.stamp()
	return b, nil
}

func (l *Ledger) EndBreak(date, at string) (int, error) {
	if err := validTime(at); err != nil {
		return 0, err
	}
	d, err := l.existingDay(date)
	if err != nil {
		return 0, err
	}
	closed := 0
	for i := range d.Breaks {
		if d.Breaks[i].End == "" {
			d.Breaks[i].End = at
			closed++
		}
	}
	if closed == 0 {
		return 0, fmt.Errorf("end break on %s: %w", date, ErrNothingOpen)
	}
	d.UpdatedAt = l.stamp()
	return closed, nil
}

// StartSession opens a work session on projectID, first closing any session
// still running on the same day.
func (l *Ledger) StartSession(date, projectID, at string) (WorkSession, error) {
	if err := validTime(at); err != nil {
		return WorkSession{}, err
	}
	pe, err := l.AddProjectToDay(date, projectID)
	if err != nil {
		return WorkSession{}, err
	}
	d := l.days[date]
	l.closeSessions(d, at)
	i := entryIndex(d, pe.ID)
	s := WorkSession{ID: l.newID(), Start: at}
	d.Projects[i].WorkSessions = append(d.Projects[i].WorkSessions, s)
	d.UpdatedAt = l.stamp()
	return s, nil
}

// StopSessions closes every running session of the day.
func (l *Ledger) StopSessions(date, at string) (int, error) {
	if err := validTime(at); err != nil {
		return 0, err
	}
	d, err := l.existingDay(date)
	if err != nil {
		return 0, err
	}
	closed := l.closeSessions(d, at)
	if closed == 0 {
		return 0, fmt.Errorf("stop sessions on %s: %w", date, ErrNothingOpen)
	}
	d.UpdatedAt = l.stamp()
	return closed, nil
}

func (l *Ledger) closeSessions(d *DayEntry, at string) int {
	closed := 0
	for i := range d.Projects {
		touched := false
		for j := range d.Projects[i].WorkSessions {
			if d.Projects[i].WorkSessions[j].End == "" {
				d.Projects[i].WorkSessions[j].End = at
				touched = true
				closed++
			}
		}
		if touched {
			d.Projects[i] = l.normalizeProjectEntry(d.Projects[i])
		}
	}
	return closed
}

// promoteLegacyAttendance rewrites a clockIn/clockOut pair as an attendance
// period so new periods can be appended next to it.
func (l *Ledger) promoteLegacyAttendance(d *DayEntry) {
	if len(d.Attendance) > 0 || d.ClockIn == "" {
		return
	}
	d.Attendance = []AttendancePeriod{{ID: l.newID(), Start: d.ClockIn, End: d.ClockOut, Location: LocationOffice}}
	d.ClockIn, d.ClockOut = "", ""
}

// Warnings lists closed intervals whose end precedes their start. They count
// as zero everywhere but are kept as entered.
func Warnings(d DayEntry) []string {
	var out []string
	for _, a := range d.Periods() {
		if hhmm.Inverted(a.Start, a.End) {
			out = append(out, fmt.Sprintf("%s: attendance %s-%s ends before it starts", d.Date, a.Start, a.End))
		}
	}
	for _, b := range d.AllBreaks() {
		if hhmm.Inverted(b.Start, b.End) {
			out = append(out, fmt.Sprintf("%s: break %s-%s ends before it starts", d.Date, b.Start, b.End))
		}
	}
	for _, pe := range d.Projects {
		for _, s := range pe.WorkSessions {
			if hhmm.Inverted(s.Start, s.End) {
				out = append(out, fmt.Sprintf("%s: session %s-%s ends before it starts", d.Date, s.Start, s.End))
			}
		}
	}
	return out
}
