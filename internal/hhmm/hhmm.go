// Package hhmm converts local wall-clock "HH:MM" values to minutes and
// measures intervals between them, including intervals that are still open.
package hhmm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Invalid is returned by ToMinutes for anything that is not a wall-clock time.
const Invalid = -1

const minutesPerDay = 24 * 60

// ToMinutes parses "H:MM" or "HH:MM" into minutes after midnight.
func ToMinutes(s string) int {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 || !digits(h) || !digits(m) {
		return Invalid
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour > 23 {
		return Invalid
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute > 59 {
		return Invalid
	}
	return hour*60 + minute
}

// digits reports whether s is made only of ASCII digits. strconv.Atoi alone
// would accept a sign.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Valid reports whether s parses as a wall-clock time.
func Valid(s string) bool {
	return ToMinutes(s) != Invalid
}

// Format renders minutes after midnight as "HH:MM", wrapping at 24h.
func Format(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FromTime returns the minutes after midnight of t in its own location.
func FromTime(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Clock renders t as "HH:MM".
func Clock(t time.Time) string {
	return Format(FromTime(t))
}

// RoundToFive rounds to the nearest multiple of five minutes, carrying into
// the hour. Empty or unparseable input is returned unchanged.
func RoundToFive(s string) string {
	m := ToMinutes(s)
	if m == Invalid {
		return s
	}
	hour, minute := m/60, m%60
	minute = (minute + 2) / 5 * 5
	if minute == 60 {
		minute = 0
		hour = (hour + 1) % 24
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
