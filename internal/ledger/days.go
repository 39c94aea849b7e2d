package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
)

// DayPatch holds the day fields to overwrite; nil fields are left alone.
type DayPatch struct {
	Attendance    *[]AttendancePeriod
	Breaks        *[]Break
	ClockIn       *string
	ClockOut      *string
	LunchStart    *string
	LunchEnd      *string
	ScheduleNotes *string
	Projects      *[]DayProjectEntry
}

// DayProjectPatch holds the day-project fields to overwrite.
type DayProjectPatch struct {
	Notes        *string
	WorkSessions *[]WorkSession
}

func validDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// CreateOrUpdateDayEntry is the public way to create or patch a DayEntry.
// An existing entry for date is shallow-merged with patch; otherwise a new
// entry is created with every unspecified field empty. The capture
// operations and AddProjectToDay create days through the same upsertDay, so
// there is never more than one entry per date.
func (l *Ledger) CreateOrUpdateDayEntry(date string, patch DayPatch) (DayEntry, error) {
	d, err := l.upsertDay(date)
	if err != nil {
		return DayEntry{}, err
	}
	if patch.Attendance != nil {
		d.Attendance = cloneSlice(*patch.Attendance)
	}
	if patch.Breaks != nil {
		d.Breaks = cloneSlice(*patch.Breaks)
	}
	if patch.ClockIn != nil {
		d.ClockIn = *patch.ClockIn
	}
	if patch.ClockOut != nil {
		d.ClockOut = *patch.ClockOut
	}
	if patch.LunchStart != nil {
		d.LunchStart = *patch.LunchStart
	}
	if patch.LunchEnd != nil {
		d.LunchEnd = *patch.LunchEnd
	}
	if patch.ScheduleNotes != nil {
		d.ScheduleNotes = *patch.ScheduleNotes
	}
	if patch.Projects != nil {
		d.Projects = make([]DayProjectEntry, len(*patch.Projects))
		for i, pe := range *patch.Projects {
			d.Projects[i] = l.normalizeProjectEntry(pe.clone())
		}
	}
	d.UpdatedAt = l.stamp()
	return d.clone(), nil
}

// upsertDay returns the live entry for date, creating an empty one first.
// Every path that can create a day goes through here.
func (l *Ledger) upsertDay(date string) (*DayEntry, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	if d, ok := l.days[date]; ok {
		return d, nil
	}
	now := l.stamp()
	d := &DayEntry{
		ID:         l.newID(),
		Date:       date,
		Attendance: []AttendancePeriod{},
		Breaks:     []Break{},
		Projects:   []DayProjectEntry{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	l.days[date] = d
	return d, nil
}

func (l *Ledger) existingDay(date string) (*DayEntry, error) {
	d, ok := l.days[date]
	if !ok {
		return nil, fmt.Errorf("day %s: %w", date, ErrDayNotFound)
	}
	return d, nil
}

// AddProjectToDay appends an entry for projectID to the day. Adding a project
// that is already present returns the existing entry unchanged.
func (l *Ledger) AddProjectToDay(date, projectID string) (DayProjectEntry, error) {
	if l.projectIndex(projectID) < 0 {
		return DayProjectEntry{}, fmt.Errorf("add project %s to %s: %w", projectID, date, ErrProjectNotFound)
	}
	d, err := l.upsertDay(date)
	if err != nil {
		return DayProjectEntry{}, err
	}
	if pe, ok := d.ProjectEntry(projectID); ok {
		return pe.clone(), nil
	}
	pe := DayProjectEntry{
		ID:           l.newID(),
		ProjectID:    projectID,
		WorkSessions: []WorkSession{},
	}
	d.Projects = append(d.Projects, pe)
	d.UpdatedAt = l.stamp()
	return pe.clone(), nil
}

func (l *Ledger) RemoveProjectFromDay(date, entryID string) error {
	d, err := l.existingDay(date)
	if err != nil {
		return err
	}
	i := entryIndex(d, entryID)
	if i < 0 {
		return fmt.Errorf("remove %s from %s: %w", entryID, date, ErrEntryNotFound)
	}
	d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
	d.UpdatedAt = l.stamp()
	return nil
}

func (l *Ledger) UpdateProjectInDay(date, entryID string, patch DayProjectPatch) (DayProjectEntry, error) {
	d, err := l.existingDay(date)
	if err != nil {
		return DayProjectEntry{}, err
	}
	i := entryIndex(d, entryID)
	if i < 0 {
		return DayProjectEntry{}, fmt.Errorf("update %s on %s: %w", entryID, date, ErrEntryNotFound)
	}
	pe := d.Projects[i]
	if patch.Notes != nil {
		pe.Notes = *patch.Notes
	}
	if patch.WorkSessions != nil {
		pe.WorkSessions = cloneSlice(*patch.WorkSessions)
	}
	d.Projects[i] = l.normalizeProjectEntry(pe)
	d.UpdatedAt = l.stamp()
	return d.Projects[i].clone(), nil
}

// ReorderProjectsInDay moves the entry at from to position to. Both indices
// must address existing entries.
func (l *Ledger) ReorderProjectsInDay(date string, from, to int) error {
	d, err := l.existingDay(date)
	if err != nil {
		return err
	}
	n := len(d.Projects)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %s [%d -> %d] of %d: %w", date, from, to, n, ErrIndexOutOfRange)
	}
	moved := d.Projects[from]
	rest := append(d.Projects[:from:from], d.Projects[from+1:]...)
	out := make([]DayProjectEntry, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	d.Projects = out
	d.UpdatedAt = l.stamp()
	return nil
}

func entryIndex(d *DayEntry, entryID string) int {
	for i := range d.Projects {
		if d.Projects[i].ID == entryID {
			return i
		}
	}
	return -1
}

func (l *Ledger) normalizeProjectEntry(pe DayProjectEntry) DayProjectEntry {
	if pe.ID == "" {
		pe.ID = l.newID()
	}
	if pe.WorkSessions == nil {
		pe.WorkSessions = []WorkSession{}
	}
	for i := range pe.WorkSessions {
		if pe.WorkSessions[i].ID == "" {
			pe.WorkSessions[i].ID = l.newID()
		}
	}
	pe.HoursWorked = hoursOf(hhmm.Sum(pe.WorkSessions, hhmm.Static))
	return pe
}

func hoursOf(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
