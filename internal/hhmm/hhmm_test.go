package hhmm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type span struct{ start, end string }

func (s span) Bounds() (string, string) { return s.start, s.end }

func TestToMinutes(t *testing.T) {
	cases := map[string]int{
		"00:00":   0,
		"09:07":   547,
		"9:07":    547,
		"23:59":   1439,
		" 08:30 ": 510,
		"":        Invalid,
		"24:00":   Invalid,
		"12:60":   Invalid,
		"12":      Invalid,
		"ab:cd":   Invalid,
		"1:5":     Invalid,
		"-1:30":   Invalid,
		"+9:05":   Invalid,
		"09:+5":   Invalid,
		"-0:30":   Invalid,
		"09:-5":   Invalid,
	}
	for in, want := range cases {
		assert.Equal(t, want, ToMinutes(in), "ToMinutes(%q)", in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "09:05", Format(545))
	assert.Equal(t, "00:00", Format(24*60))
	assert.Equal(t, "23:50", Format(-10))
}

func TestClock(t *testing.T) {
	at := time.Date(2024, 1, 4, 7, 3, 59, 0, time.Local)
	assert.Equal(t, "07:03", Clock(at))
	assert.Equal(t, 423, FromTime(at))
}

func TestRoundToFive(t *testing.T) {
	cases := map[string]string{
		"09:07": "09:05",
		"09:58": "10:00",
		"09:02": "09:00",
		"09:03": "09:05",
		"23:58": "00:00",
		"":      "",
		"later": "later",
		"+9:05": "+9:05",
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundToFive(in), "RoundToFive(%q)", in)
	}
}

func TestDurationClosed(t *testing.T) {
	assert.Equal(t, 90, Duration("08:00", "09:30", Static))
	assert.Equal(t, 0, Duration("09:30", "08:00", Static))
	assert.Equal(t, 0, Duration("09:30", "09:30", Static))
	assert.Equal(t, 0, Duration("", "09:30", Static))
	assert.Equal(t, 0, Duration("08:00", "nine", LiveAt(600)))
	assert.Equal(t, 0, Duration("+9:00", "10:00", Static))
}

func TestDurationOpen(t *testing.T) {
	assert.Equal(t, 0, Duration("08:00", "", Static))
	assert.Equal(t, 120, Duration("08:00", "", LiveAt(600)))
	assert.Equal(t, 0, Duration("11:00", "", LiveAt(600)))
}

func TestDurationMatchesSubtraction(t *testing.T) {
	for s := 0; s < 24*60; s += 37 {
		for e := s; e < 24*60; e += 53 {
			assert.Equal(t, e-s, Duration(Format(s), Format(e), Static))
		}
	}
}

func TestLiveDurationMonotonic(t *testing.T) {
	prev := -1
	for now := 0; now < 24*60; now++ {
		d := Duration("06:15", "", LiveAt(now))
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}

	frozen := Duration("06:15", "10:00", LiveAt(700))
	for now := 700; now < 24*60; now += 11 {
		assert.Equal(t, frozen, Duration("06:15", "10:00", LiveAt(now)))
	}
}

func TestSum(t *testing.T) {
	spans := []span{
		{"08:00", "09:00"},
		{"10:00", "09:00"},
		{"bad", "12:00"},
		{"13:00", ""},
	}
	assert.Equal(t, 60, Sum(spans, Static))
	assert.Equal(t, 90, Sum(spans, LiveAt(13*60+30)))
	assert.Equal(t, 0, Sum([]span(nil), Static))
}

func TestOpenAndInverted(t *testing.T) {
	assert.True(t, Open("08:00", ""))
	assert.False(t, Open("", ""))
	assert.False(t, Open("08:00", "09:00"))
	assert.True(t, Inverted("10:00", "09:00"))
	assert.False(t, Inverted("09:00", "10:00"))
	assert.False(t, Inverted("09:00", ""))
}
