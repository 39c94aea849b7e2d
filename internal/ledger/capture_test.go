package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockInOut(t *testing.T) {
	l := newTestLedger(t)
	p, err := l.ClockIn("2024-01-04", "08:00", LocationHome)
	require.NoError(t, err)
	assert.Equal(t, LocationHome, p.Location)

	_, err = l.ClockIn("2024-01-04", "08:05", LocationHome)
	require.ErrorIs(t, err, ErrAlreadyOpen)

	day, _ := l.Day("2024-01-04")
	assert.True(t, day.HasOpenInterval())

	n, err := l.ClockOut("2024-01-04", "12:00")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = l.ClockOut("2024-01-04", "12:05")
	require.ErrorIs(t, err, ErrNothingOpen)
	_, err = l.ClockOut("2024-01-05", "12:05")
	require.ErrorIs(t, err, ErrDayNotFound)
	_, err = l.ClockIn("2024-01-04", "25:00", LocationOffice)
	require.ErrorIs(t, err, ErrInvalidTime)
	_, err = l.ClockIn("2024-01-04", "+9:05", LocationOffice)
	require.ErrorIs(t, err, ErrInvalidTime)

	day, _ = l.Day("2024-01-04")
	assert.False(t, day.HasOpenInterval())
}

func TestClockOutClosesEveryOpenPeriod(t *testing.T) {
	l := newTestLedger(t)
	open := []AttendancePeriod{{Start: "08:00"}, {Start: "09:00"}}
	_, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{Attendance: &open})
	require.NoError(t, err)

	n, err := l.ClockOut("2024-01-04", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClockInPromotesLegacyPair(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateOrUpdateDayEntry("2024-01-04", DayPatch{ClockIn: strPtr("08:00"), ClockOut: strPtr("12:00")})
	require.NoError(t, err)

	_, err = l.ClockIn("2024-01-04", "13:00", LocationOffice)
	require.NoError(t, err)

	day, _ := l.Day("2024-01-04")
	require.Len(t, day.Attendance, 2)
	assert.Equal(t, "08:00", day.Attendance[0].Start)
	assert.Equal(t, "12:00", day.Attendance[0].End)
	assert.Empty(t, day.ClockIn)
}

func TestBreaks(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.StartBreak("2024-01-04", "12:00")
	require.NoError(t, err)
	_, err = l.StartBreak("2024-01-04", "12:10")
	require.ErrorIs(t, err, ErrAlreadyOpen)

	n, err := l.EndBreak("2024-01-04", "12:30")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = l.EndBreak("2024-01-04", "12:40")
	require.ErrorIs(t, err, ErrNothingOpen)
}

func TestStartSessionClosesRunningSession(t *testing.T) {
	l := newTestLedger(t)
	a := mustProject(t, l, "Alpha")
	b := mustProject(t, l, "Bravo")

	_, err := l.StartSession("2024-01-04", a.ID, "09:00")
	require.NoError(t, err)
	_, err = l.StartSession("2024-01-04", b.ID, "10:30")
	require.NoError(t, err)

	day, _ := l.Day("2024-01-04")
	pa, _ := day.ProjectEntry(a.ID)
	require.Len(t, pa.WorkSessions, 1)
	assert.Equal(t, "10:30", pa.WorkSessions[0].End)
	assert.Equal(t, 1.5, pa.HoursWorked)

	n, err := l.StopSessions("2024-01-04", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = l.StopSessions("2024-01-04", "11:00")
	require.ErrorIs(t, err, ErrNothingOpen)

	_, err = l.StartSession("2024-01-04", "missing", "12:00")
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestWarnings(t *testing.T) {
	d := DayEntry{
		Date:       "2024-01-04",
		Attendance: []AttendancePeriod{{Start: "17:00", End: "08:00"}},
		Breaks:     []Break{{Start: "12:00", End: "12:30"}},
		Projects: []DayProjectEntry{{
			WorkSessions: []WorkSession{{Start: "10:00", End: "09:00"}, {Start: "11:00"}},
		}},
	}
	w := Warnings(d)
	require.Len(t, w, 2)
	assert.Contains(t, w[0], "attendance 17:00-08:00")
	assert.Contains(t, w[1], "session 10:00-09:00")
}
