package history

import "time"

// DefaultDelay is the idle period after which a staged snapshot commits.
const DefaultDelay = time.Second

// Debouncer is a single-slot buffer for coalescing bursts of edits into one
// undo step. The first snapshot staged in a burst is kept, since it is the
// state before the burst began; later stages only push the deadline out.
//
// Debouncer has no timer of its own. The owner calls Due on its tick and
// Flush whenever the burst must end early.
type Debouncer struct {
	delay    time.Duration
	pending  *Snapshot
	key      string
	deadline time.Time
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Stage buffers s unless a snapshot is already pending for the same key,
// and moves the deadline to now plus the delay. Staging under a different
// key returns the previously pending snapshot so the caller can commit it
// first.
func (d *Debouncer) Stage(key string, s Snapshot, now time.Time) (Snapshot, bool) {
	var evicted Snapshot
	var ok bool
	if d.pending != nil && d.key != key {
		evicted, ok = d.Flush()
	}
	if d.pending == nil {
		d.pending = &s
		d.key = key
	}
	d.deadline = now.Add(d.delay)
	return evicted, ok
}

// Due returns the pending snapshot once its deadline has passed, clearing
// the slot.
func (d *Debouncer) Due(now time.Time) (Snapshot, bool) {
	if d.pending == nil || now.Before(d.deadline) {
		return Snapshot{}, false
	}
	return d.Flush()
}

// Flush empties the slot regardless of the deadline.
func (d *Debouncer) Flush() (Snapshot, bool) {
	if d.pending == nil {
		return Snapshot{}, false
	}
	s := *d.pending
	d.pending = nil
	d.key = ""
	d.deadline = time.Time{}
	return s, true
}

func (d *Debouncer) Pending() bool { return d.pending != nil }

// Deadline is zero when nothing is pending.
func (d *Debouncer) Deadline() time.Time { return d.deadline }
