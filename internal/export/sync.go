package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
)

// SyncRecord is the outbound unit: closed work per date, project and task.
type SyncRecord struct {
	Date        string  `json:"date"`
	ProjectID   string  `json:"projectId"`
	ProjectName string  `json:"projectName"`
	ExternalID  string  `json:"externalId,omitempty"`
	TaskID      string  `json:"taskId,omitempty"`
	TaskName    string  `json:"taskName,omitempty"`
	Minutes     int     `json:"minutes"`
	Hours       float64 `json:"hours"`
	Notes       string  `json:"notes,omitempty"`
}

type syncKey struct{ date, project, task string }

// SyncRecords groups closed sessions inside r. Open sessions are not sent;
// they have no end yet. Notes are the project entry notes followed by each
// session's done notes, without repeats.
func SyncRecords(st ledger.State, r stats.Range) []SyncRecord {
	projects := make(map[string]ledger.Project, len(st.Projects))
	for _, p := range st.Projects {
		projects[p.ID] = p
	}

	groups := map[syncKey]*SyncRecord{}
	notes := map[syncKey][]string{}
	var order []syncKey
	for _, d := range st.Days {
		if !r.Contains(d.Date) {
			continue
		}
		for _, pe := range d.Projects {
			for _, s := range pe.WorkSessions {
				m := hhmm.Duration(s.Start, s.End, hhmm.Static)
				if m == 0 {
					continue
				}
				k := syncKey{d.Date, pe.ProjectID, s.TaskID}
				rec, ok := groups[k]
				if !ok {
					p := projects[pe.ProjectID]
					rec = &SyncRecord{Date: d.Date, ProjectID: pe.ProjectID, ProjectName: p.Name, TaskID: s.TaskID}
					if p.ExternalRef != nil {
						rec.ExternalID = p.ExternalRef.ID
					}
					if t, ok := p.Task(s.TaskID); ok {
						rec.TaskName = t.Name
					}
					groups[k] = rec
					order = append(order, k)
					notes[k] = appendNote(nil, pe.Notes)
				}
				rec.Minutes += m
				notes[k] = appendNote(notes[k], s.DoneNotes)
			}
		}
	}

	out := make([]SyncRecord, 0, len(order))
	for _, k := range order {
		rec := groups[k]
		rec.Hours = hours(rec.Minutes)
		rec.Notes = strings.Join(notes[k], "\n")
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ProjectName < out[j].ProjectName
	})
	return out
}

func appendNote(list []string, note string) []string {
	note = strings.TrimSpace(note)
	if note == "" {
		return list
	}
	for _, n := range list {
		if n == note {
			return list
		}
	}
	return append(list, note)
}

// SyncResult is how every exchange with an external system ends, whether
// or not it worked.
type SyncResult struct {
	Success bool
	Message string
	Pushed  int
	Created int
	Updated int
	Skipped int
}

// Sink accepts outbound records and reports how many it took.
type Sink interface {
	Push(ctx context.Context, records []SyncRecord) (accepted int, err error)
}

// Push sends records to sink.
func Push(ctx context.Context, sink Sink, records []SyncRecord) SyncResult {
	if len(records) == 0 {
		return SyncResult{Success: true, Message: "nothing to push"}
	}
	n, err := sink.Push(ctx, records)
	if err != nil {
		return SyncResult{Message: fmt.Sprintf("push failed: %v", err), Pushed: n, Skipped: len(records) - n}
	}
	return SyncResult{
		Success: true,
		Message: fmt.Sprintf("pushed %d of %d records", n, len(records)),
		Pushed:  n,
		Skipped: len(records) - n,
	}
}

// ExternalRecord is a project or task as an external system describes it.
// Fields holds anything the mapper may need beyond the common shape.
type ExternalRecord struct {
	ID             string            `json:"id"`
	Subject        string            `json:"subject"`
	Description    string            `json:"description,omitempty"`
	Status         string            `json:"status,omitempty"`
	Progress       int               `json:"progress,omitempty"`
	EstimatedHours float64           `json:"estimatedHours,omitempty"`
	StartDate      string            `json:"startDate,omitempty"`
	DueDate        string            `json:"dueDate,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// Source lists the external system's records.
type Source interface {
	Fetch(ctx context.Context) ([]ExternalRecord, error)
}

// Mapper turns an external record into a project record. Returning false
// skips the record.
type Mapper func(ExternalRecord) (ledger.ProjectRecord, bool)

// DefaultMapper maps the common shape, tagging each project with its id in
// system.
func DefaultMapper(system string, at time.Time) Mapper {
	return func(rec ExternalRecord) (ledger.ProjectRecord, bool) {
		name := strings.TrimSpace(rec.Subject)
		if name == "" {
			return ledger.ProjectRecord{}, false
		}
		out := ledger.ProjectRecord{
			Name:        name,
			Description: rec.Description,
			StartDate:   rec.StartDate,
			EndDate:     rec.DueDate,
		}
		if rec.ID != "" {
			out.ExternalRef = &ledger.ExternalRef{System: system, ID: rec.ID, Status: rec.Status, SyncedAt: at.UTC()}
		}
		return out, true
	}
}

// PullProjects fetches from src and reconciles the mapped records as one
// undoable step. Matches are only updated when applyUpdates is set.
func PullProjects(ctx context.Context, g Gate, src Source, m Mapper, applyUpdates bool) SyncResult {
	external, err := src.Fetch(ctx)
	if err != nil {
		return SyncResult{Message: fmt.Sprintf("fetch failed: %v", err)}
	}
	records := make([]ledger.ProjectRecord, 0, len(external))
	unmapped := 0
	for _, e := range external {
		rec, ok := m(e)
		if !ok {
			unmapped++
			continue
		}
		records = append(records, rec)
	}

	var res ledger.ProjectImportResult
	err = g.Mutate(ctx, fmt.Sprintf("pull %d projects", len(records)), func(l *ledger.Ledger) error {
		res = l.ImportProjects(records, applyUpdates)
		return nil
	})
	if err != nil {
		return SyncResult{Message: fmt.Sprintf("apply failed: %v", err)}
	}
	return SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d created, %d updated, %d skipped", res.Created, res.Updated, res.Skipped+unmapped),
		Created: res.Created,
		Updated: res.Updated,
		Skipped: res.Skipped + unmapped,
	}
}

// FileSink writes records as a JSON array, standing in for a remote system.
type FileSink struct {
	Path string
}

func (s FileSink) Push(ctx context.Context, records []SyncRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write json file: %w", err)
	}
	return len(records), nil
}

// FileSource reads external records from a JSON array.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]ExternalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var out []ExternalRecord
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return out, nil
}
