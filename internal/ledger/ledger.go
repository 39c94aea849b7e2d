// Package ledger holds the projects and day entries of a single user's time
// ledger and every mutation that may be applied to them.
//
// A Ledger is not safe for concurrent use. Callers serialize mutations
// through a single gate (see the workspace package).
package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Ledger struct {
	projects []Project
	days     map[string]*DayEntry

	now   func() time.Time
	newID func() string
}

type Option func(*Ledger)

// WithClock overrides the time source used for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		days:  make(map[string]*DayEntry),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds a ledger from previously persisted collections. Day entries
// sharing a date collapse onto the last one seen.
func Load(projects []Project, days []DayEntry, opts ...Option) *Ledger {
	l := New(opts...)
	l.Restore(State{Projects: projects, Days: days})
	return l
}

func (l *Ledger) stamp() time.Time {
	return l.now().UTC()
}

// State returns a deep copy of the ledger with days ordered by date.
func (l *Ledger) State() State {
	return State{Projects: l.Projects(), Days: l.Days()}
}

// Restore replaces the ledger contents with a copy of st.
func (l *Ledger) Restore(st State) {
	l.projects = make([]Project, 0, len(st.Projects))
	for _, p := range st.Projects {
		l.projects = append(l.projects, p.clone())
	}
	l.days = make(map[string]*DayEntry, len(st.Days))
	for _, d := range st.Days {
		if d.Date == "" {
			continue
		}
		c := d.clone()
		l.days[d.Date] = &c
	}
}

// Projects returns copies of all projects in insertion order.
func (l *Ledger) Projects() []Project {
	out := make([]Project, len(l.projects))
	for i, p := range l.projects {
		out[i] = p.clone()
	}
	return out
}

func (l *Ledger) Project(id string) (Project, bool) {
	i := l.projectIndex(id)
	if i < 0 {
		return Project{}, false
	}
	return l.projects[i].clone(), true
}

func (l *Ledger) projectIndex(id string) int {
	for i := range l.projects {
		if l.projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Days returns copies of all day entries ordered by date.
func (l *Ledger) Days() []DayEntry {
	out := make([]DayEntry, 0, len(l.days))
	for _, d := range l.days {
		out = append(out, d.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (l *Ledger) Day(date string) (DayEntry, bool) {
	d, ok := l.days[date]
	if !ok {
		return DayEntry{}, false
	}
	return d.clone(), true
}

// ProjectNames maps project ids to names.
func (l *Ledger) ProjectNames() map[string]string {
	out := make(map[string]string, len(l.projects))
	for _, p := range l.projects {
		out[p.ID] = p.Name
	}
	return out
}
