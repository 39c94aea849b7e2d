package ledger

import (
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
)

// DateLayout is the calendar key of a DayEntry.
const DateLayout = "2006-01-02"

type Location string

const (
	LocationOffice Location = "office"
	LocationHome   Location = "home"
)

// ParseLocation maps free text onto a Location, defaulting to office.
func ParseLocation(s string) Location {
	if Location(s) == LocationHome {
		return LocationHome
	}
	return LocationOffice
}

type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   string       `json:"startDate,omitempty"`
	EndDate     string       `json:"endDate,omitempty"`
	Color       string       `json:"color"`
	Tasks       []Task       `json:"tasks,omitempty"`
	ExternalRef *ExternalRef `json:"externalRef,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Task struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Progress       int     `json:"progress,omitempty"` // percent
	EstimatedHours float64 `json:"estimatedHours,omitempty"`
	SpentHours     float64 `json:"spentHours,omitempty"`
}

// ExternalRef ties a project to its record in an outside system.
type ExternalRef struct {
	System   string    `json:"system,omitempty"`
	ID       string    `json:"id"`
	Status   string    `json:"status,omitempty"`
	SyncedAt time.Time `json:"syncedAt,omitempty"`
}

// Task looks up a task by id.
func (p Project) Task(id string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

type WorkSession struct {
	ID        string `json:"id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	DoneNotes string `json:"doneNotes,omitempty"`
	TodoNotes string `json:"todoNotes,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
}

func (s WorkSession) Bounds() (string, string) { return s.Start, s.End }

type AttendancePeriod struct {
	ID       string   `json:"id"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Location Location `json:"location"`
}

func (a AttendancePeriod) Bounds() (string, string) { return a.Start, a.End }

type Break struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (b Break) Bounds() (string, string) { return b.Start, b.End }

// DayProjectEntry is one project's work on one day. HoursWorked caches the
// closed-session total.
type DayProjectEntry struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"projectId"`
	Notes        string        `json:"notes,omitempty"`
	HoursWorked  float64       `json:"hoursWorked"`
	WorkSessions []WorkSession `json:"workSessions"`
}

type DayEntry struct {
	ID            string             `json:"id"`
	Date          string             `json:"date"`
	Attendance    []AttendancePeriod `json:"attendance"`
	Breaks        []Break            `json:"breaks"`
	ClockIn       string             `json:"clockIn,omitempty"`
	ClockOut      string             `json:"clockOut,omitempty"`
	LunchStart    string             `json:"lunchStart,omitempty"`
	LunchEnd      string             `json:"lunchEnd,omitempty"`
	ScheduleNotes string             `json:"scheduleNotes,omitempty"`
	Projects      []DayProjectEntry  `json:"projects"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Periods returns the attendance periods, reading a legacy clockIn/clockOut
// pair as a single office period.
func (d DayEntry) Periods() []AttendancePeriod {
	if len(d.Attendance) > 0 || d.ClockIn == "" {
		return d.Attendance
	}
	return []AttendancePeriod{{ID: "legacy", Start: d.ClockIn, End: d.ClockOut, Location: LocationOffice}}
}

// AllBreaks returns the breaks plus lunch when both of its bounds are set.
func (d DayEntry) AllBreaks() []Break {
	if d.LunchStart == "" || d.LunchEnd == "" {
		return d.Breaks
	}
	out := make([]Break, 0, len(d.Breaks)+1)
	out = append(out, d.Breaks...)
	return append(out, Break{ID: "lunch", Start: d.LunchStart, End: d.LunchEnd})
}

// Sessions flattens the work sessions of every project entry.
func (d DayEntry) Sessions() []WorkSession {
	var out []WorkSession
	for _, pe := range d.Projects {
		out = append(out, pe.WorkSessions...)
	}
	return out
}

// HasOpenInterval reports whether any attendance, break or session is running.
func (d DayEntry) HasOpenInterval() bool {
	for _, a := range d.Periods() {
		if hhmm.Open(a.Start, a.End) {
			return true
		}
	}
	for _, b := range d.Breaks {
		if hhmm.Open(b.Start, b.End) {
			return true
		}
	}
	for _, s := range d.Sessions() {
		if hhmm.Open(s.Start, s.End) {
			return true
		}
	}
	return false
}

// ProjectEntry finds the entry for projectID on this day.
func (d DayEntry) ProjectEntry(projectID string) (DayProjectEntry, bool) {
	for _, pe := range d.Projects {
		if pe.ProjectID == projectID {
			return pe, true
		}
	}
	return DayProjectEntry{}, false
}

// State is the whole ledger: what gets persisted and what undo snapshots hold.
type State struct {
	Projects []Project  `json:"projects"`
	Days     []DayEntry `json:"days"`
}

func (p Project) clone() Project {
	p.Tasks = cloneSlice(p.Tasks)
	if p.ExternalRef != nil {
		ref := *p.ExternalRef
		p.ExternalRef = &ref
	}
	return p
}

func (pe DayProjectEntry) clone() DayProjectEntry {
	pe.WorkSessions = cloneSlice(pe.WorkSessions)
	return pe
}

func (d DayEntry) clone() DayEntry {
	d.Attendance = cloneSlice(d.Attendance)
	d.Breaks = cloneSlice(d.Breaks)
	projects := make([]DayProjectEntry, len(d.Projects))
	for i, pe := range d.Projects {
		projects[i] = pe.clone()
	}
	d.Projects = projects
	return d
}

// cloneSlice copies s, returning an empty non-nil slice for nil input so
// serialized lists stay [] rather than null.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
