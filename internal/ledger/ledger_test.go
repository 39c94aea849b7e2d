package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 4, 9, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	n := 0
	return New(
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
}

func mustProject(t *testing.T, l *Ledger, name string) Project {
	t.Helper()
	p, err := l.AddProject(ProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

// ============================================================
// Projects
// ============================================================

func TestAddProject(t *testing.T) {
	l := newTestLedger(t)
	p, err := l.AddProject(ProjectInput{Name: "  Alpha ", StartDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "id-001", p.ID)
	assert.Equal(t, "Alpha", p.Name)
	assert.Equal(t, fixedNow, p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, ColorForHue(defaultHue), p.Color)
}

func TestAddProjectValidation(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.AddProject(ProjectInput{Name: "   "})
	require.ErrorIs(t, err, ErrInvalidProject)

	_, err = l.AddProject(ProjectInput{Name: "X", StartDate: "2024-02-01", EndDate: "2024-01-01"})
	require.ErrorIs(t, err, ErrInvalidProject)

	_, err = l.AddProject(ProjectInput{Name: "X", StartDate: "yesterday"})
	require.ErrorIs(t, err, ErrInvalidProject)
	assert.Empty(t, l.Projects())
}

func TestColorsFollowAlphabeticalOrder(t *testing.T) {
	l := newTestLedger(t)
	bravo := mustProject(t, l, "Bravo")
	alpha := mustProject(t, l, "alpha")
	charlie := mustProject(t, l, "Charlie")

	colors := map[string]string{}
	for _, p := range l.Projects() {
		colors[p.ID] = p.Color
	}
	assert.Equal(t, ColorForHue(0), colors[alpha.ID])
	assert.Equal(t, ColorForHue(165), colors[bravo.ID])
	assert.Equal(t, ColorForHue(330), colors[charlie.ID])
}

func TestHueForIndex(t *testing.T) {
	assert.Equal(t, defaultHue, HueForIndex(0, 1))
	assert.Equal(t, 0, HueForIndex(0, 2))
	assert.Equal(t, 330, HueForIndex(1, 2))
	assert.Equal(t, 110, HueForIndex(1, 4))

	seen := map[int]bool{}
	for i := 0; i < 20; i++ {
		h := HueForIndex(i, 20)
		assert.False(t, seen[h], "hue %d repeated", h)
		seen[h] = true
	}
}

func TestUpdateProjectRenameReassignsColors(t *testing.T) {
	l := newTestLedger(t)
	a := mustProject(t, l, "Alpha")
	b := mustProject(t, l, "Bravo")

	later := fixedNow.Add(time.Hour)
	l.now = func() time.Time { return later }

	updated, err := l.UpdateProject(a.ID, ProjectPatch{Description: strPtr("first")})
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Description)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, ColorForHue(0), updated.Color)

	updated, err = l.UpdateProject(a.ID, ProjectPatch{Name: strPtr("Zulu")})
	require.NoError(t, err)
	assert.Equal(t, ColorForHue(330), updated.Color)
	got, _ := l.Project(b.ID)
	assert.Equal(t, ColorForHue(0), got.Color)
}

func TestUpdateProjectErrors(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.UpdateProject("missing", ProjectPatch{})
	require.ErrorIs(t, err, ErrProjectNotFound)

	p := mustProject(t, l, "Alpha")
	_, err = l.UpdateProject(p.ID, ProjectPatch{Name: strPtr("")})
	require.ErrorIs(t, err, ErrInvalidProject)
	got, _ := l.Project(p.ID)
	assert.Equal(t, "Alpha", got.Name)
}

func TestDeleteProjectKeepsDayEntries(t *testing.T) {
	l := newTestLedger(t)
	a := mustProject(t, l, "Alpha")
	b := mustProject(t, l, "Bravo")
	_, err := l.AddProjectToDay("2024-01-04", a.ID)
	require.NoError(t, err)

	require.NoError(t, l.DeleteProject(a.ID))
	require.ErrorIs(t, l.DeleteProject(a.ID), ErrProjectNotFound)

	day, ok := l.Day("2024-01-04")
	require.True(t, ok)
	require.Len(t, day.Projects, 1)
	assert.Equal(t, a.ID, day.Projects[0].ProjectID)

	got, _ := l.Project(b.ID)
	assert.Equal(t, ColorForHue(defaultHue), got.Color)
}

func TestFindProjectByName(t *testing.T) {
	l := newTestLedger(t)
	a := mustProject(t, l, "Alpha")
	got, ok := l.FindProjectByName(" ALPHA")
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)
	_, ok = l.FindProjectByName("beta")
	assert.False(t, ok)
}

func TestProjectsReturnsCopies(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.AddProject(ProjectInput{Name: "Alpha", Tasks: []Task{{Name: "t1"}}})
	require.NoError(t, err)

	ps := l.Projects()
	ps[0].Name = "mutated"
	ps[0].Tasks[0].Name = "mutated"

	again := l.Projects()
	assert.Equal(t, "Alpha", again[0].Name)
	assert.Equal(t, "t1", again[0].Tasks[0].Name)
	assert.NotEmpty(t, again[0].Tasks[0].ID)
}

// ============================================================
// Day entries
// ============================================================

func TestCreateOrUpdateDayEntry(t *testing.T) {
	l := newTestLedger(t)
	d, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{ScheduleNotes: strPtr("standup")})
	require.NoError(t, err)
	assert.Equal(t, "standup", d.ScheduleNotes)
	assert.NotNil(t, d.Attendance)
	assert.NotNil(t, d.Breaks)
	assert.NotNil(t, d.Projects)

	d2, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{LunchStart: strPtr("12:00")})
	require.NoError(t, err)
	assert.Equal(t, d.ID, d2.ID)
	assert.Equal(t, "standup", d2.ScheduleNotes)
	assert.Equal(t, "12:00", d2.LunchStart)
	assert.Len(t, l.Days(), 1)

	_, err = l.CreateOrUpdateDayEntry("04/01/2024", DayPatch{})
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDaysOrderedByDate(t *testing.T) {
	l := newTestLedger(t)
	for _, d := range []string{"2024-01-05", "2023-12-31", "2024-01-01"} {
		_, err := l.CreateOrUpdateDayEntry(d, DayPatch{})
		require.NoError(t, err)
	}
	days := l.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "2023-12-31", days[0].Date)
	assert.Equal(t, "2024-01-05", days[2].Date)
}

func TestAddProjectToDayIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "Alpha")

	first, err := l.AddProjectToDay("2024-01-04", p.ID)
	require.NoError(t, err)
	second, err := l.AddProjectToDay("2024-01-04", p.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	day, _ := l.Day("2024-01-04")
	assert.Len(t, day.Projects, 1)

	_, err = l.AddProjectToDay("2024-01-04", "missing")
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateProjectInDayRecomputesHours(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "Alpha")
	pe, err := l.AddProjectToDay("2024-01-04", p.ID)
	require.NoError(t, err)

	sessions := []WorkSession{
		{Start: "09:00", End: "10:30"},
		{Start: "11:00", End: "10:00"},
		{Start: "13:00"},
	}
	got, err := l.UpdateProjectInDay("2024-01-04", pe.ID, DayProjectPatch{
		Notes:        strPtr("review"),
		WorkSessions: &sessions,
	})
	require.NoError(t, err)
	assert.Equal(t, "review", got.Notes)
	assert.Equal(t, 1.5, got.HoursWorked)
	for _, s := range got.WorkSessions {
		assert.NotEmpty(t, s.ID)
	}

	_, err = l.UpdateProjectInDay("2024-01-04", "nope", DayProjectPatch{})
	require.ErrorIs(t, err, ErrEntryNotFound)
	_, err = l.UpdateProjectInDay("2024-01-05", pe.ID, DayProjectPatch{})
	require.ErrorIs(t, err, ErrDayNotFound)
}

func TestClearingSessionsResetsHours(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "Alpha")
	_, err := l.StartSession("2024-01-04", p.ID, "09:00")
	require.NoError(t, err)
	_, err = l.StopSessions("2024-01-04", "11:00")
	require.NoError(t, err)

	day, _ := l.Day("2024-01-04")
	pe, _ := day.ProjectEntry(p.ID)
	require.Equal(t, 2.0, pe.HoursWorked)

	got, err := l.UpdateProjectInDay("2024-01-04", pe.ID, DayProjectPatch{WorkSessions: &[]WorkSession{}})
	require.NoError(t, err)
	assert.Empty(t, got.WorkSessions)
	assert.Equal(t, 0.0, got.HoursWorked)

	stale := []DayProjectEntry{{ProjectID: p.ID, HoursWorked: 5}}
	d, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{Projects: &stale})
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.Projects[0].HoursWorked)
}

func TestCaptureSharesDayWithCreateOrUpdate(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.ClockIn("2024-01-04", "09:00", LocationOffice)
	require.NoError(t, err)
	clocked, _ := l.Day("2024-01-04")

	d, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{ScheduleNotes: strPtr("standup")})
	require.NoError(t, err)
	assert.Equal(t, clocked.ID, d.ID)
	assert.Len(t, d.Attendance, 1)
	assert.Len(t, l.Days(), 1)
}

func TestRemoveProjectFromDay(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "Alpha")
	pe, _ := l.AddProjectToDay("2024-01-04", p.ID)

	require.NoError(t, l.RemoveProjectFromDay("2024-01-04", pe.ID))
	require.ErrorIs(t, l.RemoveProjectFromDay("2024-01-04", pe.ID), ErrEntryNotFound)
	day, _ := l.Day("2024-01-04")
	assert.Empty(t, day.Projects)
}

func dayProjectOrder(t *testing.T, l *Ledger, date string) []string {
	t.Helper()
	day, ok := l.Day(date)
	require.True(t, ok)
	names := l.ProjectNames()
	var out []string
	for _, pe := range day.Projects {
		out = append(out, names[pe.ProjectID])
	}
	return out
}

func TestReorderProjectsInDay(t *testing.T) {
	l := newTestLedger(t)
	for _, name := range []string{"A", "B", "C"} {
		p := mustProject(t, l, name)
		_, err := l.AddProjectToDay("2024-01-04", p.ID)
		require.NoError(t, err)
	}

	require.NoError(t, l.ReorderProjectsInDay("2024-01-04", 0, 2))
	assert.Equal(t, []string{"B", "C", "A"}, dayProjectOrder(t, l, "2024-01-04"))

	require.NoError(t, l.ReorderProjectsInDay("2024-01-04", 2, 0))
	assert.Equal(t, []string{"A", "B", "C"}, dayProjectOrder(t, l, "2024-01-04"))

	require.NoError(t, l.ReorderProjectsInDay("2024-01-04", 1, 1))
	assert.Equal(t, []string{"A", "B", "C"}, dayProjectOrder(t, l, "2024-01-04"))
}

func TestReorderOutOfRange(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "A")
	_, _ = l.AddProjectToDay("2024-01-04", p.ID)

	for _, idx := range [][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}} {
		err := l.ReorderProjectsInDay("2024-01-04", idx[0], idx[1])
		require.ErrorIs(t, err, ErrIndexOutOfRange, "indices %v", idx)
	}
	require.ErrorIs(t, l.ReorderProjectsInDay("2024-02-01", 0, 0), ErrDayNotFound)
}

func TestStateRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	p := mustProject(t, l, "Alpha")
	_, err := l.StartSession("2024-01-04", p.ID, "09:00")
	require.NoError(t, err)

	st := l.State()
	other := Load(st.Projects, st.Days)
	assert.Equal(t, st, other.State())
}

func TestLegacyPeriodsAndLunch(t *testing.T) {
	d := DayEntry{Date: "2024-01-04", ClockIn: "08:00", ClockOut: "17:00", LunchStart: "12:00", LunchEnd: "12:30"}
	periods := d.Periods()
	require.Len(t, periods, 1)
	assert.Equal(t, LocationOffice, periods[0].Location)
	assert.Len(t, d.AllBreaks(), 1)

	d.Attendance = []AttendancePeriod{{Start: "09:00", End: "10:00", Location: LocationHome}}
	assert.Equal(t, LocationHome, d.Periods()[0].Location)

	d.LunchEnd = ""
	assert.Empty(t, d.AllBreaks())
}
