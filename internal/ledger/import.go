package ledger

import (
	"strings"
)

// ProjectRecord is a project as it arrives from an import document or an
// external system.
type ProjectRecord struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   string       `json:"startDate,omitempty"`
	EndDate     string       `json:"endDate,omitempty"`
	Tasks       []Task       `json:"tasks,omitempty"`
	ExternalRef *ExternalRef `json:"externalRef,omitempty"`
}

func (r ProjectRecord) project() Project {
	return Project{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Tasks:       r.Tasks,
		ExternalRef: r.ExternalRef,
	}
}

// DayRecord is a day entry whose project entries name their project rather
// than referencing it by id.
type DayRecord struct {
	Date          string             `json:"date"`
	Attendance    []AttendancePeriod `json:"attendance,omitempty"`
	Breaks        []Break            `json:"breaks,omitempty"`
	ClockIn       string             `json:"clockIn,omitempty"`
	ClockOut      string             `json:"clockOut,omitempty"`
	LunchStart    string             `json:"lunchStart,omitempty"`
	LunchEnd      string             `json:"lunchEnd,omitempty"`
	ScheduleNotes string             `json:"scheduleNotes,omitempty"`
	Projects      []DayProjectRecord `json:"projects,omitempty"`
}

type DayProjectRecord struct {
	Project      string        `json:"project"`
	Notes        string        `json:"notes,omitempty"`
	HoursWorked  float64       `json:"hoursWorked,omitempty"`
	WorkSessions []WorkSession `json:"workSessions,omitempty"`
}

// PlannedProject is the outcome of reconciling one incoming record.
type PlannedProject struct {
	Record  ProjectRecord
	MatchID string // empty when the record would create a project
	Rule    string
}

type ProjectImportPlan struct {
	Items   []PlannedProject
	Creates int
	Updates int
	Skipped int
}

type ProjectImportResult struct {
	Created int
	Updated int
	Skipped int
	// NameToID maps lower-cased project names to ids after the import.
	NameToID map[string]string
}

// PlanProjectImport reports what ImportProjects would do without changing
// the ledger. Records without a name or with inverted dates are skipped.
func (l *Ledger) PlanProjectImport(records []ProjectRecord) ProjectImportPlan {
	var plan ProjectImportPlan
	working := l.Projects()
	for _, rec := range records {
		in := rec.project()
		if in.Name == "" || validateProject(in) != nil {
			plan.Skipped++
			continue
		}
		idx, rule := ProjectPolicy.Resolve(working, in)
		if rule == nil {
			in.ID = "pending"
			working = append(working, in)
			plan.Items = append(plan.Items, PlannedProject{Record: rec})
			plan.Creates++
			continue
		}
		if working[idx].ID != "pending" {
			plan.Items = append(plan.Items, PlannedProject{Record: rec, MatchID: working[idx].ID, Rule: rule.Name})
			plan.Updates++
			continue
		}
		// A second record for a project this batch creates folds into it.
		working[idx] = rule.Merge(working[idx], in)
		plan.Items = append(plan.Items, PlannedProject{Record: rec, Rule: rule.Name})
	}
	return plan
}

// ImportProjects reconciles records against the existing projects. Records
// that match an existing project are merged only when applyUpdates is set;
// the rest are inserted with fresh ids and colours assigned afterwards.
func (l *Ledger) ImportProjects(records []ProjectRecord, applyUpdates bool) ProjectImportResult {
	var res ProjectImportResult
	created := make(map[string]bool)
	now := l.stamp()
	for _, rec := range records {
		in := rec.project()
		if in.Name == "" || validateProject(in) != nil {
			res.Skipped++
			continue
		}
		idx, rule := ProjectPolicy.Resolve(l.projects, in)
		switch {
		case rule == nil:
			in.ID = l.newID()
			in.CreatedAt, in.UpdatedAt = now, now
			in = in.clone()
			l.assignTaskIDs(in.Tasks)
			l.projects = append(l.projects, in)
			created[in.ID] = true
			res.Created++
		case created[l.projects[idx].ID]:
			l.projects[idx] = rule.Merge(l.projects[idx], in)
		case applyUpdates:
			merged := rule.Merge(l.projects[idx], in)
			l.assignTaskIDs(merged.Tasks)
			merged.UpdatedAt = now
			l.projects[idx] = merged
			res.Updated++
		default:
			res.Skipped++
		}
	}
	if res.Created > 0 || res.Updated > 0 {
		l.reassignColors()
	}
	res.NameToID = l.NameIndex()
	return res
}

// NameIndex maps lower-cased project names to ids.
func (l *Ledger) NameIndex() map[string]string {
	out := make(map[string]string, len(l.projects))
	for _, p := range l.projects {
		out[nameKey(p.Name)] = p.ID
	}
	return out
}

type DayImportResult struct {
	Created int
	Updated int
	Skipped int
	// Dropped counts project entries whose project name could not be resolved.
	Dropped int
}

// ImportDayEntries merges day records into the ledger. Project names are
// resolved through nameToID (keys compared case-insensitively); entries that
// do not resolve are dropped rather than stored with a dangling id.
func (l *Ledger) ImportDayEntries(records []DayRecord, nameToID map[string]string) DayImportResult {
	var res DayImportResult
	index := make(map[string]string, len(nameToID))
	for name, id := range nameToID {
		index[nameKey(name)] = id
	}
	for _, rec := range records {
		if validDate(rec.Date) != nil {
			res.Skipped++
			continue
		}
		in, dropped := l.dayFromRecord(rec, index)
		res.Dropped += dropped

		existing, ok := l.days[rec.Date]
		if !ok {
			d, _ := l.upsertDay(rec.Date)
			*d = DayPolicy[0].Merge(*d, in)
			res.Created++
			continue
		}
		_, rule := DayPolicy.Resolve([]DayEntry{*existing}, in)
		*existing = rule.Merge(*existing, in)
		existing.UpdatedAt = l.stamp()
		res.Updated++
	}
	return res
}

func (l *Ledger) dayFromRecord(rec DayRecord, index map[string]string) (DayEntry, int) {
	d := DayEntry{
		Date:          rec.Date,
		Attendance:    l.withPeriodIDs(rec.Attendance),
		Breaks:        l.withBreakIDs(rec.Breaks),
		ClockIn:       rec.ClockIn,
		ClockOut:      rec.ClockOut,
		LunchStart:    rec.LunchStart,
		LunchEnd:      rec.LunchEnd,
		ScheduleNotes: rec.ScheduleNotes,
	}
	dropped := 0
	for _, pr := range rec.Projects {
		id, ok := index[nameKey(pr.Project)]
		if !ok || id == "" {
			dropped++
			continue
		}
		pe := l.normalizeProjectEntry(DayProjectEntry{
			ProjectID:    id,
			Notes:        pr.Notes,
			HoursWorked:  pr.HoursWorked,
			WorkSessions: cloneSlice(pr.WorkSessions),
		})
		// Records without sessions carry only the summarised hours.
		if len(pe.WorkSessions) == 0 {
			pe.HoursWorked = pr.HoursWorked
		}
		d.Projects = append(d.Projects, pe)
	}
	return d, dropped
}

func (l *Ledger) withPeriodIDs(in []AttendancePeriod) []AttendancePeriod {
	out := cloneSlice(in)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = l.newID()
		}
		if out[i].Location == "" {
			out[i].Location = LocationOffice
		}
	}
	return out
}

func (l *Ledger) withBreakIDs(in []Break) []Break {
	out := cloneSlice(in)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = l.newID()
		}
	}
	return out
}
