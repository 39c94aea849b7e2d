// Package workspace is the single mutation gate over a ledger. Every write
// goes through Mutate or MutateCoalesced, which snapshot the ledger for
// undo, apply the change and persist the result before the next mutation is
// accepted.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/dayledger/internal/hhmm"
	"github.com/sadopc/dayledger/internal/history"
	"github.com/sadopc/dayledger/internal/ledger"
)

// Persister stores the two ledger collections as opaque JSON documents.
// A collection that was never saved is returned as nil.
type Persister interface {
	LoadLedger(ctx context.Context) (projects, days []byte, err error)
	SaveLedger(ctx context.Context, projects, days []byte) error
}

type Workspace struct {
	mu sync.Mutex

	ledger  *ledger.Ledger
	history *history.Stack
	pending *history.Debouncer
	store   Persister
	logger  *slog.Logger

	now         func() time.Time
	roundToFive bool
	location    ledger.Location
	ledgerOpts  []ledger.Option
}

type Option func(*Workspace)

// WithHistory sets the undo depth and the idle period for coalesced edits.
func WithHistory(depth int, debounce time.Duration) Option {
	return func(w *Workspace) {
		w.history = history.New(depth)
		w.pending = history.NewDebouncer(debounce)
	}
}

// WithClock overrides the time source for snapshots, capture times and the
// ledger's own stamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		w.now = now
		w.ledgerOpts = append(w.ledgerOpts, ledger.WithClock(now))
	}
}

// WithLedgerOptions passes options through to the ledger.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(w *Workspace) { w.ledgerOpts = append(w.ledgerOpts, opts...) }
}

// WithCapture sets how live capture times are taken: rounded to the nearest
// five minutes or not, and which location a clock-in defaults to.
func WithCapture(roundToFive bool, loc ledger.Location) Option {
	return func(w *Workspace) {
		w.roundToFive = roundToFive
		w.location = loc
	}
}

// Open loads the ledger from store. A collection that fails to decode is
// logged and replaced by an empty one.
func Open(ctx context.Context, store Persister, logger *slog.Logger, opts ...Option) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Workspace{
		history:  history.New(history.DefaultDepth),
		pending:  history.NewDebouncer(history.DefaultDelay),
		store:    store,
		logger:   logger,
		now:      time.Now,
		location: ledger.LocationOffice,
	}
	for _, opt := range opts {
		opt(w)
	}

	projectsJSON, daysJSON, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	var projects []ledger.Project
	var days []ledger.DayEntry
	if err := decodeBlob(projectsJSON, &projects); err != nil {
		logger.Warn("discarding malformed projects", "error", err)
		projects = nil
	}
	if err := decodeBlob(daysJSON, &days); err != nil {
		logger.Warn("discarding malformed day entries", "error", err)
		days = nil
	}
	w.ledger = ledger.Load(projects, days, w.ledgerOpts...)
	logger.Debug("ledger loaded", "projects", len(projects), "days", len(days))
	return w, nil
}

func decodeBlob(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

// Mutate runs fn against the ledger as one undoable step named label. If fn
// fails the ledger is put back exactly as it was and nothing is recorded.
func (w *Workspace) Mutate(ctx context.Context, label string, fn func(*ledger.Ledger) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.flushPending()
	before, err := w.apply(label, fn)
	if err != nil {
		return err
	}
	if w.unchanged(before) {
		return nil
	}
	if w.history.Push(before) {
		w.logger.Debug("mutation", "label", label)
	}
	return w.save(ctx)
}

// MutateCoalesced is Mutate for high-frequency edits such as typing. Edits
// sharing key within the debounce period collapse into one undo step that
// restores the state before the first of them.
func (w *Workspace) MutateCoalesced(ctx context.Context, key, label string, fn func(*ledger.Ledger) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	before, err := w.apply(label, fn)
	if err != nil {
		return err
	}
	if w.unchanged(before) {
		return nil
	}
	if prev, ok := w.pending.Stage(key, before, w.now()); ok {
		w.commit(prev)
	}
	return w.save(ctx)
}

// apply snapshots the ledger, runs fn and rolls back on error.
func (w *Workspace) apply(label string, fn func(*ledger.Ledger) error) (history.Snapshot, error) {
	before, err := history.Take(label, w.now(), w.ledger.State())
	if err != nil {
		return history.Snapshot{}, err
	}
	if err := fn(w.ledger); err != nil {
		w.ledger.Restore(mustState(before))
		return history.Snapshot{}, err
	}
	return before, nil
}

func (w *Workspace) unchanged(before history.Snapshot) bool {
	after, err := history.Take("", before.At, w.ledger.State())
	return err == nil && after.SameState(before)
}

// mustState decodes a snapshot this package just encoded.
func mustState(s history.Snapshot) ledger.State {
	st, err := s.State()
	if err != nil {
		panic(fmt.Sprintf("workspace: snapshot round trip: %v", err))
	}
	return st
}

func (w *Workspace) commit(s history.Snapshot) {
	if w.history.Push(s) {
		w.logger.Debug("mutation", "label", s.Label, "coalesced", true)
	}
}

func (w *Workspace) flushPending() {
	if s, ok := w.pending.Flush(); ok {
		w.commit(s)
	}
}

// Tick commits a coalesced edit whose idle period has run out. It reports
// whether anything was committed.
func (w *Workspace) Tick(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.pending.Due(now)
	if ok {
		w.commit(s)
	}
	return ok
}

// Flush commits any pending coalesced edit immediately.
func (w *Workspace) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushPending()
}

// ErrNothingToUndo and ErrNothingToRedo are returned when the respective
// stack is empty.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Undo restores the state before the most recent step and returns its label.
func (w *Workspace) Undo(ctx context.Context) (string, error) {
	return w.travel(ctx, "undo", w.history.Undo, ErrNothingToUndo)
}

// Redo reapplies the most recently undone step and returns its label.
func (w *Workspace) Redo(ctx context.Context) (string, error) {
	return w.travel(ctx, "redo", w.history.Redo, ErrNothingToRedo)
}

func (w *Workspace) travel(ctx context.Context, dir string, step func(history.Snapshot) (history.Snapshot, bool), empty error) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.flushPending()
	current, err := history.Take(dir, w.now(), w.ledger.State())
	if err != nil {
		return "", err
	}
	target, ok := step(current)
	if !ok {
		return "", empty
	}
	st, err := target.State()
	if err != nil {
		return "", fmt.Errorf("%s: %w", dir, err)
	}
	w.ledger.Restore(st)
	w.logger.Debug(dir, "label", target.Label)
	return target.Label, w.save(ctx)
}

func (w *Workspace) CanUndo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.CanUndo() || w.pending.Pending()
}

func (w *Workspace) CanRedo() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.history.CanRedo() && !w.pending.Pending()
}

// Pending reports whether a coalesced edit is waiting for its idle period.
func (w *Workspace) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending.Pending()
}

func (w *Workspace) save(ctx context.Context) error {
	st := w.ledger.State()
	projects, err := json.Marshal(st.Projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	days, err := json.Marshal(st.Days)
	if err != nil {
		return fmt.Errorf("encode days: %w", err)
	}
	if err := w.store.SaveLedger(ctx, projects, days); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Close commits any pending coalesced edit and saves.
func (w *Workspace) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushPending()
	return w.save(ctx)
}

// State returns a copy of the whole ledger.
func (w *Workspace) State() ledger.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ledger.State()
}

// Read runs fn with the ledger under the gate. fn must not mutate it.
func (w *Workspace) Read(fn func(*ledger.Ledger)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.ledger)
}

func (w *Workspace) Now() time.Time { return w.now() }

// Today is the current date in ledger form.
func (w *Workspace) Today() string {
	return w.now().Format(ledger.DateLayout)
}

// ClockTime is the current time of day as it should be captured.
func (w *Workspace) ClockTime() string {
	at := hhmm.Clock(w.now())
	if w.roundToFive {
		at = hhmm.RoundToFive(at)
	}
	return at
}

// DefaultLocation is where a clock-in happens unless told otherwise.
func (w *Workspace) DefaultLocation() ledger.Location { return w.location }

func (w *Workspace) Logger() *slog.Logger { return w.logger }
