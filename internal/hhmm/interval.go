package hhmm

// Interval is anything bounded by two wall-clock values. An empty end means
// the interval is still open.
type Interval interface {
	Bounds() (start, end string)
}

// Mode selects how open intervals are measured.
type Mode struct {
	Live bool
	Now  int // minutes after midnight, used only when Live
}

// Static measures open intervals as zero.
var Static = Mode{}

// LiveAt measures open intervals up to now.
func LiveAt(now int) Mode {
	return Mode{Live: true, Now: now}
}

// Duration returns the length of start..end in minutes, never negative.
// An unparseable bound contributes zero.
func Duration(start, end string, mode Mode) int {
	s := ToMinutes(start)
	if s == Invalid {
		return 0
	}
	var e int
	switch {
	case end != "":
		e = ToMinutes(end)
		if e == Invalid {
			return 0
		}
	case mode.Live:
		e = mode.Now
	default:
		return 0
	}
	return max(0, e-s)
}

// Sum adds up the durations of all intervals.
func Sum[T Interval](intervals []T, mode Mode) int {
	total := 0
	for _, iv := range intervals {
		start, end := iv.Bounds()
		total += Duration(start, end, mode)
	}
	return total
}

// Open reports whether the interval has a usable start and no end.
func Open(start, end string) bool {
	return end == "" && Valid(start)
}

// Inverted reports a closed interval whose end falls before its start.
func Inverted(start, end string) bool {
	s, e := ToMinutes(start), ToMinutes(end)
	return s != Invalid && e != Invalid && e < s
}
