package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/folio/internal/ir"
)

// Defaults for NewManager.
const (
	// DefaultMaxSize is the number of entries kept before the oldest is evicted.
	DefaultMaxSize = 50

	// DefaultThrottleWindow is the suppression window for continuous actions.
	DefaultThrottleWindow = 300 * time.Millisecond

	// DefaultRestoreFallback is how long the restore guard stays up when the
	// coordinator never calls EndRestore.
	DefaultRestoreFallback = 50 * time.Millisecond
)

// FloorPolicy selects what Undo does from the oldest entry.
type FloorPolicy int

const (
	// FloorEmptySnapshot moves to the pre-history state and returns an empty
	// snapshot, so a user can undo back to a blank document.
	FloorEmptySnapshot FloorPolicy = iota

	// FloorStop keeps the oldest entry current; Undo reports nothing to undo.
	FloorStop
)

// String returns the config spelling of the policy.
func (p FloorPolicy) String() string {
	if p == FloorStop {
		return "stop"
	}
	return "empty"
}

// SaveOutcome reports what SaveState did. Every outcome other than
// SaveAccepted is an expected steady state, not an error.
type SaveOutcome int

const (
	SaveAccepted SaveOutcome = iota + 1
	SaveSkippedRestoring
	SaveSkippedDuplicate
	SaveSkippedThrottled
)

// String returns a short lowercase name for traces and logs.
func (o SaveOutcome) String() string {
	switch o {
	case SaveAccepted:
		return "accepted"
	case SaveSkippedRestoring:
		return "restoring"
	case SaveSkippedDuplicate:
		return "duplicate"
	case SaveSkippedThrottled:
		return "throttled"
	default:
		return "unknown"
	}
}

// RestoreToken identifies one restore raised by UndoToken or RedoToken.
type RestoreToken uint64

// Manager orchestrates save/undo/redo/clear over a Log.
//
// Thread-safety model:
//   - every exported method is safe from any goroutine
//   - the fallback guard release runs on the Scheduler's goroutine
//
// One Manager belongs to one document; there is no package-level instance.
type Manager struct {
	mu sync.Mutex

	log  *Log
	gate *ThrottleGate

	// Restore guard. restoreGen identifies the latest restore so a stale
	// fallback cannot lower the guard of a newer one.
	restoring  bool
	restoreGen uint64

	// Dedup and throttle state of the most recently accepted save.
	lastFingerprint string
	lastAccepted    time.Time

	// Configuration, fixed after NewManager.
	maxSize    int
	window     time.Duration
	continuous []ActionTag
	fallback   time.Duration
	floor      FloorPolicy
	clock      Clock
	ids        IDGenerator
	scheduler  Scheduler
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSize sets the maximum number of retained entries.
func WithMaxSize(n int) Option {
	return func(m *Manager) {
		m.maxSize = n
	}
}

// WithThrottleWindow sets the window applied to continuous actions.
// Zero disables throttling.
func WithThrottleWindow(d time.Duration) Option {
	return func(m *Manager) {
		m.window = d
	}
}

// WithContinuousActions replaces the set of throttled action tags.
func WithContinuousActions(tags ...ActionTag) Option {
	return func(m *Manager) {
		m.continuous = append([]ActionTag(nil), tags...)
	}
}

// WithRestoreFallback sets the delay of the default fallback scheduler.
// Ignored when WithScheduler supplies a scheduler.
func WithRestoreFallback(d time.Duration) Option {
	return func(m *Manager) {
		m.fallback = d
	}
}

// WithFloorPolicy selects the undo-at-oldest-entry behavior.
func WithFloorPolicy(p FloorPolicy) Option {
	return func(m *Manager) {
		m.floor = p
	}
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithIDGenerator sets the entry ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) {
		m.ids = g
	}
}

// WithScheduler sets the scheduler used for the fallback guard release.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) {
		m.scheduler = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager with an empty history.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		maxSize:    DefaultMaxSize,
		window:     DefaultThrottleWindow,
		continuous: DefaultContinuousActions,
		fallback:   DefaultRestoreFallback,
		floor:      FloorEmptySnapshot,
		clock:      SystemClock{},
		ids:        UUIDv7Generator{},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.scheduler == nil {
		m.scheduler = AfterFuncScheduler{Delay: m.fallback}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.log = NewLog(m.maxSize)
	m.gate = NewThrottleGate(m.window, m.continuous...)

	return m
}

// SaveState records snapshot as the document state after action.
//
// The save is dropped, in this order, when a restore is in progress, when
// the snapshot's fingerprint equals that of the last accepted save, or when
// the throttle gate rejects it. Otherwise the redo branch is discarded, a
// clone of snapshot becomes the new current entry, and the oldest entry is
// evicted if the log is over capacity.
//
// Snapshots with duplicate element IDs are stored as given; a warning is logged.
func (m *Manager) SaveState(snapshot ir.Snapshot, action ActionTag, description string) SaveOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.restoring {
		m.logger.Debug("save ignored during restore", "action", action)
		return SaveSkippedRestoring
	}

	fp, err := ir.SnapshotFingerprint(snapshot)
	if err != nil {
		m.logger.Warn("fingerprint failed, dedup skipped", "action", action, "error", err)
	} else if fp == m.lastFingerprint {
		return SaveSkippedDuplicate
	}

	now := m.clock.Now()
	if m.gate.ShouldThrottle(action, now, m.lastAccepted) {
		return SaveSkippedThrottled
	}

	if dups := snapshot.DuplicateIDs(); len(dups) > 0 {
		m.logger.Warn("snapshot contains duplicate element ids", "action", action, "ids", dups)
	}

	m.log.TruncateAfter(m.log.Current())
	m.log.Append(NewEntry(m.ids.Generate(), now, action, description, snapshot))
	m.log.SetCurrent(m.log.Len() - 1)
	if m.log.EvictOldestIfOverCapacity() {
		m.log.SetCurrent(m.log.Current() - 1)
	}

	m.lastAccepted = now
	m.lastFingerprint = fp

	m.logger.Debug("history saved",
		"action", action,
		"elements", len(snapshot),
		"size", m.log.Len(),
		"index", m.log.Current(),
	)
	return SaveAccepted
}

// Undo steps back one entry and returns the snapshot to restore.
//
// Returns (nil, false) when there is nothing to undo. Under FloorEmptySnapshot,
// undoing the oldest entry returns an empty, non-nil snapshot and moves to
// the pre-history state.
//
// A successful Undo raises the restore guard; see EndRestore.
func (m *Manager) Undo() (ir.Snapshot, bool) {
	snap, _, ok := m.UndoToken()
	return snap, ok
}

// UndoToken is Undo that also returns the token of the restore it raised,
// for use with Release.
func (m *Manager) UndoToken() (ir.Snapshot, RestoreToken, bool) {
	m.mu.Lock()
	snap, gen, ok := m.undoLocked()
	m.mu.Unlock()

	if ok {
		m.scheduleRelease(gen)
	}
	return snap, RestoreToken(gen), ok
}

func (m *Manager) undoLocked() (ir.Snapshot, uint64, bool) {
	cur := m.log.Current()
	if cur < 0 || (cur == 0 && m.floor == FloorStop) {
		return nil, 0, false
	}

	gen := m.beginRestoreLocked()
	m.log.SetCurrent(cur - 1)

	if cur == 0 {
		m.logger.Debug("history undo to empty document")
		return ir.Snapshot{}, gen, true
	}

	entry, _ := m.log.Get(cur - 1)
	m.logger.Debug("history undo", "index", cur-1, "action", entry.Action())
	return entry.Snapshot(), gen, true
}

// Redo steps forward one entry and returns the snapshot to restore.
// Returns (nil, false) when there is nothing to redo.
//
// A successful Redo raises the restore guard; see EndRestore.
func (m *Manager) Redo() (ir.Snapshot, bool) {
	snap, _, ok := m.RedoToken()
	return snap, ok
}

// RedoToken is Redo that also returns the token of the restore it raised,
// for use with Release.
func (m *Manager) RedoToken() (ir.Snapshot, RestoreToken, bool) {
	m.mu.Lock()
	snap, gen, ok := m.redoLocked()
	m.mu.Unlock()

	if ok {
		m.scheduleRelease(gen)
	}
	return snap, RestoreToken(gen), ok
}

func (m *Manager) redoLocked() (ir.Snapshot, uint64, bool) {
	cur, n := m.log.Current(), m.log.Len()
	if n == 0 || cur >= n-1 {
		return nil, 0, false
	}

	gen := m.beginRestoreLocked()
	m.log.SetCurrent(cur + 1)

	entry, _ := m.log.Get(cur + 1)
	m.logger.Debug("history redo", "index", cur+1, "action", entry.Action())
	return entry.Snapshot(), gen, true
}

// beginRestoreLocked raises the guard and returns the new restore generation.
func (m *Manager) beginRestoreLocked() uint64 {
	m.restoring = true
	m.restoreGen++
	return m.restoreGen
}

// scheduleRelease arms the fallback release for restore gen.
// Called without the lock so a synchronous Scheduler cannot deadlock.
func (m *Manager) scheduleRelease(gen uint64) {
	m.scheduler.Schedule(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.releaseLocked(gen) {
			m.logger.Debug("restore guard released by fallback", "generation", gen)
		}
	})
}

// releaseLocked lowers the guard if restore gen is still the current one.
func (m *Manager) releaseLocked(gen uint64) bool {
	if !m.restoring || m.restoreGen != gen {
		return false
	}
	m.restoring = false
	return true
}

// EndRestore lowers the restore guard, whichever restore raised it.
// Calling it with no restore in progress is a no-op. A caller that may
// overlap restores should use Release with the token from UndoToken or
// RedoToken instead.
func (m *Manager) EndRestore() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.restoring = false
}

// Release lowers the restore guard raised by tok, once the snapshot has been
// applied and the renderer's resulting change notifications delivered.
// It reports false, leaving the guard up, when a newer restore has started
// since tok was issued or the guard is already down.
func (m *Manager) Release(tok RestoreToken) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.releaseLocked(uint64(tok)) {
		m.logger.Debug("stale restore release ignored", "generation", uint64(tok))
		return false
	}
	return true
}

// IsRestoring reports whether the restore guard is up.
func (m *Manager) IsRestoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restoring
}

// ClearHistory removes every entry and forgets the dedup and throttle state.
// The restore guard is left as it is.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Clear()
	m.lastFingerprint = ""
	m.lastAccepted = time.Time{}
	m.logger.Debug("history cleared")
}

// CanUndo reports whether Undo would return a snapshot.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.log.Len() == 0 {
		return false
	}
	if m.floor == FloorStop {
		return m.log.Current() > 0
	}
	return m.log.Current() >= 0
}

// CanRedo reports whether Redo would return a snapshot.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Len() > 0 && m.log.Current() < m.log.Len()-1
}

// Size returns the number of entries in the history.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Len()
}

// CurrentIndex returns the index of the current entry, or -1 for the
// pre-history state.
func (m *Manager) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Current()
}

// MaxSize returns the retention limit.
func (m *Manager) MaxSize() int {
	return m.log.Capacity()
}

// Entries returns metadata for every entry, oldest first.
func (m *Manager) Entries() []EntryInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]EntryInfo, m.log.Len())
	for i := range result {
		entry, _ := m.log.Get(i)
		result[i] = entry.Info()
	}
	return result
}

// PeekUndo returns the entry the next Undo would revert.
func (m *Manager) PeekUndo() (EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.log.Current()
	if cur < 0 || (cur == 0 && m.floor == FloorStop) {
		return EntryInfo{}, false
	}
	entry, _ := m.log.Get(cur)
	return entry.Info(), true
}

// PeekRedo returns the entry the next Redo would restore.
func (m *Manager) PeekRedo() (EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.log.Get(m.log.Current() + 1)
	if !ok {
		return EntryInfo{}, false
	}
	return entry.Info(), true
}
