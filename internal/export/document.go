// Package export turns the ledger into documents and records for the world
// outside it: JSON backups, CSV timesheets and outbound sync payloads, and
// brings external data back in through the workspace gate.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/dayledger/internal/ledger"
	"github.com/sadopc/dayledger/internal/stats"
)

// DocumentVersion is written into every document. Newer documents are
// rejected on import.
const DocumentVersion = 1

var ErrMalformedDocument = errors.New("malformed export document")

type ExportType string

const (
	TypeDay   ExportType = "day"
	TypeMonth ExportType = "month"
	TypeFull  ExportType = "full"
)

type Document struct {
	Version    int                    `json:"version"`
	ExportedAt time.Time              `json:"exportedAt"`
	ExportType ExportType             `json:"exportType"`
	Period     string                 `json:"period"`
	Summary    DocumentSummary        `json:"summary"`
	Entries    []ledger.DayRecord     `json:"entries"`
	Projects   []ledger.ProjectRecord `json:"projects,omitempty"`
}

type DocumentSummary struct {
	WorkMinutes       int              `json:"workMinutes"`
	AttendanceMinutes int              `json:"attendanceMinutes"`
	BreakMinutes      int              `json:"breakMinutes"`
	DaysWorked        int              `json:"daysWorked"`
	Projects          []ProjectSummary `json:"projects"`
}

type ProjectSummary struct {
	Name    string  `json:"name"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// ExportDay exports a single date.
func ExportDay(st ledger.State, date string, now time.Time) (Document, error) {
	if _, err := time.Parse(ledger.DateLayout, date); err != nil {
		return Document{}, fmt.Errorf("export day: %w", ledger.ErrInvalidDate)
	}
	return build(st, TypeDay, date, stats.Range{From: date, To: date}, now), nil
}

// ExportMonth exports a "YYYY-MM" month.
func ExportMonth(st ledger.State, month string, now time.Time) (Document, error) {
	r, err := stats.MonthRange(month)
	if err != nil {
		return Document{}, fmt.Errorf("export month: %w", err)
	}
	return build(st, TypeMonth, month, r, now), nil
}

// ExportAll is a full backup, the only kind that carries projects.
func ExportAll(st ledger.State, now time.Time) Document {
	doc := build(st, TypeFull, "all", stats.Range{}, now)
	doc.Projects = make([]ledger.ProjectRecord, 0, len(st.Projects))
	for _, p := range st.Projects {
		doc.Projects = append(doc.Projects, ledger.ProjectRecord{
			Name:        p.Name,
			Description: p.Description,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			Tasks:       p.Tasks,
			ExternalRef: p.ExternalRef,
		})
	}
	return doc
}

func build(st ledger.State, typ ExportType, period string, r stats.Range, now time.Time) Document {
	names := make(map[string]string, len(st.Projects))
	for _, p := range st.Projects {
		names[p.ID] = p.Name
	}

	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: now.UTC().Truncate(time.Second),
		ExportType: typ,
		Period:     period,
		Entries:    []ledger.DayRecord{},
	}
	for _, d := range st.Days {
		if r.Contains(d.Date) {
			doc.Entries = append(doc.Entries, dayRecord(d, names))
		}
	}

	sum := stats.Summarize(st, r, now)
	doc.Summary = DocumentSummary{
		WorkMinutes:       sum.WorkMinutes,
		AttendanceMinutes: sum.AttendanceMinutes,
		BreakMinutes:      sum.BreakMinutes,
		DaysWorked:        sum.DaysWorked,
		Projects:          make([]ProjectSummary, 0, len(sum.Projects)),
	}
	for _, pt := range sum.Projects {
		doc.Summary.Projects = append(doc.Summary.Projects, ProjectSummary{
			Name:    pt.Name,
			Minutes: pt.Minutes,
			Hours:   hours(pt.Minutes),
		})
	}
	return doc
}

// dayRecord replaces project ids by names. Entries of deleted projects keep
// an empty name and will not resolve on import.
func dayRecord(d ledger.DayEntry, names map[string]string) ledger.DayRecord {
	rec := ledger.DayRecord{
		Date:          d.Date,
		Attendance:    d.Attendance,
		Breaks:        d.Breaks,
		ClockIn:       d.ClockIn,
		ClockOut:      d.ClockOut,
		LunchStart:    d.LunchStart,
		LunchEnd:      d.LunchEnd,
		ScheduleNotes: d.ScheduleNotes,
	}
	for _, pe := range d.Projects {
		rec.Projects = append(rec.Projects, ledger.DayProjectRecord{
			Project:      names[pe.ProjectID],
			Notes:        pe.Notes,
			HoursWorked:  pe.HoursWorked,
			WorkSessions: pe.WorkSessions,
		})
	}
	return rec
}

func hours(minutes int) float64 {
	return float64(minutes*100/60) / 100
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return nil
}

// WriteJSON writes doc to path.
func WriteJSON(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// Decode reads a document. Anything that is not a document this version can
// understand fails with ErrMalformedDocument.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	switch {
	case doc.Version > DocumentVersion:
		return Document{}, fmt.Errorf("%w: version %d is newer than %d", ErrMalformedDocument, doc.Version, DocumentVersion)
	case doc.ExportType != TypeDay && doc.ExportType != TypeMonth && doc.ExportType != TypeFull:
		return Document{}, fmt.Errorf("%w: unknown export type %q", ErrMalformedDocument, doc.ExportType)
	}
	return doc, nil
}

// ReadJSON decodes the document stored at path.
func ReadJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
