package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyPrecedence(t *testing.T) {
	existing := []Project{
		{ID: "by-name", Name: "Website"},
		{ID: "by-ref", Name: "Other", ExternalRef: &ExternalRef{System: "crm", ID: "42"}},
	}
	in := Project{Name: "website", ExternalRef: &ExternalRef{System: "crm", ID: "42"}}

	idx, rule := ProjectPolicy.Resolve(existing, in)
	require.NotNil(t, rule)
	assert.Equal(t, RuleExternalID, rule.Name)
	assert.Equal(t, 1, idx)

	in.ExternalRef.ID = "43"
	idx, rule = ProjectPolicy.Resolve(existing, in)
	require.NotNil(t, rule)
	assert.Equal(t, RuleName, rule.Name)
	assert.Equal(t, 0, idx)

	idx, rule = ProjectPolicy.Resolve(existing, Project{Name: "New"})
	assert.Nil(t, rule)
	assert.Equal(t, -1, idx)
}

func TestImportProjectsByExternalID(t *testing.T) {
	l := newTestLedger(t)
	p, err := l.AddProject(ProjectInput{Name: "Website", ExternalRef: &ExternalRef{System: "crm", ID: "42"}})
	require.NoError(t, err)

	records := []ProjectRecord{
		{Name: "Website Relaunch", Description: "phase 2", ExternalRef: &ExternalRef{System: "crm", ID: "42"}},
		{Name: "Mobile App", ExternalRef: &ExternalRef{System: "crm", ID: "77"}},
	}

	plan := l.PlanProjectImport(records)
	assert.Equal(t, 1, plan.Creates)
	assert.Equal(t, 1, plan.Updates)
	assert.Equal(t, p.ID, plan.Items[0].MatchID)
	assert.Len(t, l.Projects(), 1, "planning must not mutate")

	res := l.ImportProjects(records, true)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)

	got, ok := l.Project(p.ID)
	require.True(t, ok)
	assert.Equal(t, "Website Relaunch", got.Name)
	assert.Equal(t, "phase 2", got.Description)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.Len(t, l.Projects(), 2)

	mobile, ok := l.FindProjectByName("mobile app")
	require.True(t, ok)
	assert.NotEmpty(t, mobile.Color)
	assert.Equal(t, mobile.ID, res.NameToID["mobile app"])
}

func TestImportProjectsWithoutApplyingUpdates(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "Website")

	res := l.ImportProjects([]ProjectRecord{{Name: "WEBSITE", Description: "ignored"}}, false)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 1, res.Skipped)
	got, _ := l.Project(p.ID)
	assert.Empty(t, got.Description)
}

func TestImportProjectsDuplicateInBatch(t *testing.T) {
	l := newTestLedger(t)
	records := []ProjectRecord{{Name: "Alpha"}, {Name: "alpha", Description: "second"}, {Name: ""}}

	plan := l.PlanProjectImport(records)
	assert.Equal(t, 1, plan.Creates)
	assert.Equal(t, 0, plan.Updates)
	assert.Equal(t, 1, plan.Skipped)

	res := l.ImportProjects(records, false)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, l.Projects(), 1)
	assert.Equal(t, "second", l.Projects()[0].Description)
}

func TestImportDayEntriesResolvesNames(t *testing.T) {
	l := newTestLedger(t)
	alpha := mustProject(t, l, "Alpha")

	records := []DayRecord{{
		Date:          "2024-01-04",
		ScheduleNotes: "imported",
		Attendance:    []AttendancePeriod{{Start: "08:00", End: "16:00"}},
		Projects: []DayProjectRecord{
			{Project: "ALPHA", WorkSessions: []WorkSession{{Start: "09:00", End: "11:00"}}},
			{Project: "Ghost"},
		},
	}, {Date: "not-a-date"}}

	res := l.ImportDayEntries(records, l.NameIndex())
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, res.Skipped)

	day, ok := l.Day("2024-01-04")
	require.True(t, ok)
	require.Len(t, day.Projects, 1)
	assert.Equal(t, alpha.ID, day.Projects[0].ProjectID)
	assert.Equal(t, 2.0, day.Projects[0].HoursWorked)
	assert.Equal(t, LocationOffice, day.Attendance[0].Location)
	assert.NotEmpty(t, day.Attendance[0].ID)
}

func TestImportDayEntriesKeepsSummaryHours(t *testing.T) {
	l := newTestLedger(t)
	alpha := mustProject(t, l, "Alpha")

	res := l.ImportDayEntries([]DayRecord{{
		Date:     "2024-01-04",
		Projects: []DayProjectRecord{{Project: "Alpha", HoursWorked: 3.5}},
	}}, l.NameIndex())
	assert.Equal(t, 1, res.Created)

	day, ok := l.Day("2024-01-04")
	require.True(t, ok)
	pe, ok := day.ProjectEntry(alpha.ID)
	require.True(t, ok)
	assert.Equal(t, 3.5, pe.HoursWorked)
}

func TestImportDayEntriesPrefersNonEmpty(t *testing.T) {
	l := newTestLedger(t)
	alpha := mustProject(t, l, "Alpha")
	breaks := []Break{{ID: "b1", Start: "12:00", End: "12:30"}}
	_, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{
		ScheduleNotes: strPtr("keep me"),
		LunchStart:    strPtr("12:00"),
		Breaks:        &breaks,
	})
	require.NoError(t, err)
	_, err = l.AddProjectToDay("2024-01-04", alpha.ID)
	require.NoError(t, err)
	before, _ := l.Day("2024-01-04")

	res := l.ImportDayEntries([]DayRecord{{
		Date:     "2024-01-04",
		LunchEnd: "12:45",
		Projects: []DayProjectRecord{{Project: "Ghost"}},
	}}, l.NameIndex())
	assert.Equal(t, 1, res.Updated)

	after, _ := l.Day("2024-01-04")
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "keep me", after.ScheduleNotes)
	assert.Equal(t, "12:00", after.LunchStart)
	assert.Equal(t, "12:45", after.LunchEnd)
	assert.Equal(t, before.Breaks, after.Breaks)
	assert.Equal(t, before.Projects, after.Projects, "all incoming projects dropped, list kept")

	res = l.ImportDayEntries([]DayRecord{{
		Date:   "2024-01-04",
		Breaks: []Break{{Start: "15:00", End: "15:10"}},
	}}, l.NameIndex())
	assert.Equal(t, 1, res.Updated)
	after, _ = l.Day("2024-01-04")
	require.Len(t, after.Breaks, 1)
	assert.Equal(t, "15:00", after.Breaks[0].Start)
}
