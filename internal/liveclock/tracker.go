// Package liveclock keeps the signed-in user's open session on screen with
// an elapsed-seconds counter that advances once per second.
//
// The tracker is display-only. Elapsed seconds never feed the stats
// aggregation, which always recomputes from stored rows.
package liveclock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

// SessionSource looks up a user's open session. service.SessionController
// satisfies it.
type SessionSource interface {
	ActiveSession(ctx context.Context, userID string) (*domain.Session, error)
}

// EventSource delivers committed session writes. *service.SessionHub
// satisfies it.
type EventSource interface {
	Subscribe(fn func(service.SessionEvent)) (unsubscribe func())
}

// Tick is pushed to listeners after every reload and once per interval
// while a session is open. Session is nil when the user has none.
type Tick struct {
	UserID  string
	Session *domain.Session
	Elapsed int
	At      time.Time
}

// Running reports whether the tick carries a live session.
func (t Tick) Running() bool { return t.Session != nil }

// ErrClosed is returned by Open on a tracker that has been closed.
var ErrClosed = errors.New("live clock closed")

type Option func(*Tracker)

func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithReloadEvery makes the tracker re-read the store every d, picking up
// writes made by other processes that never reach the event source.
func WithReloadEvery(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.reloadEvery = d
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tracker holds one user's open session and ticks its elapsed time.
type Tracker struct {
	source      SessionSource
	events      EventSource
	interval    time.Duration
	reloadEvery time.Duration
	now         func() time.Time
	logger      *slog.Logger

	mu        sync.Mutex
	userID    string
	session   *domain.Session
	listeners map[int]func(Tick)
	nextID    int

	started atomic.Bool
	alive   atomic.Bool
	busy    atomic.Bool
	// emitMu lets Close wait out listeners that are already being called.
	emitMu sync.RWMutex
	reload chan struct{}
	stop   chan struct{}
	done   chan struct{}
	unsub  func()
}

func New(source SessionSource, events EventSource, opts ...Option) *Tracker {
	t := &Tracker{
		source:    source,
		events:    events,
		interval:  time.Second,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: make(map[int]func(Tick)),
		reload:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open starts tracking userID: it subscribes to session events, loads the
// current open session and starts the ticker. A second Open is a no-op; Open
// after Close fails with ErrClosed. Open and Close must not race.
func (t *Tracker) Open(ctx context.Context, userID string) error {
	if !t.started.CompareAndSwap(false, true) {
		if t.alive.Load() {
			return nil
		}
		return ErrClosed
	}
	t.alive.Store(true)
	t.mu.Lock()
	t.userID = userID
	t.mu.Unlock()

	if t.events != nil {
		t.unsub = t.events.Subscribe(func(service.SessionEvent) { t.requestReload() })
	}
	go t.run()
	return t.Reload(ctx)
}

// SetUser switches the tracked user and reloads.
func (t *Tracker) SetUser(ctx context.Context, userID string) error {
	t.mu.Lock()
	changed := t.userID != userID
	t.userID = userID
	if changed {
		t.session = nil
	}
	t.mu.Unlock()
	return t.Reload(ctx)
}

// Reload fetches the user's open session from the source. A reload that
// overlaps one already in flight is dropped. Results that arrive after
// Close are discarded. A result for a user that was switched away from
// mid-flight is discarded too, and the reload runs again for the new user,
// since the reload SetUser issued may have been the one dropped.
func (t *Tracker) Reload(ctx context.Context) error {
	for {
		if !t.alive.Load() {
			return nil
		}
		if !t.busy.CompareAndSwap(false, true) {
			return nil
		}
		stale, err := t.reloadOnce(ctx)
		t.busy.Store(false)
		if !stale {
			return err
		}
	}
}

// reloadOnce runs one source lookup while holding the busy latch. stale is
// true when the tracked user changed during the lookup.
func (t *Tracker) reloadOnce(ctx context.Context) (stale bool, err error) {
	t.mu.Lock()
	userID := t.userID
	t.mu.Unlock()
	if userID == "" {
		return false, nil
	}

	s, err := t.source.ActiveSession(ctx, userID)
	if !t.alive.Load() {
		return false, nil
	}

	t.mu.Lock()
	if t.userID != userID {
		t.mu.Unlock()
		return true, nil
	}
	if err != nil {
		t.mu.Unlock()
		t.logger.WarnContext(ctx, "live clock reload failed", "user_id", userID, "error", err)
		return false, err
	}
	t.session = s
	t.mu.Unlock()

	t.emit()
	return false, nil
}

// Snapshot returns the current tick without waiting for the ticker.
func (t *Tracker) Snapshot() Tick {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Subscribe registers fn for ticks and returns a func that removes it.
func (t *Tracker) Subscribe(fn func(Tick)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// Close stops the ticker and the event subscription. Once Close returns,
// listeners receive no further ticks, so a listener must not call Close.
// Closing a tracker that was never opened prevents it from being opened.
func (t *Tracker) Close() {
	t.started.Store(true)
	if !t.alive.CompareAndSwap(true, false) {
		return
	}
	if t.unsub != nil {
		t.unsub()
	}
	close(t.stop)
	<-t.done

	// Wait out emits that passed the alive check before it was cleared.
	t.emitMu.Lock()
	t.emitMu.Unlock()
}

func (t *Tracker) requestReload() {
	select {
	case t.reload <- struct{}{}:
	default:
	}
}

func (t *Tracker) run() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var every <-chan time.Time
	if t.reloadEvery > 0 {
		poll := time.NewTicker(t.reloadEvery)
		defer poll.Stop()
		every = poll.C
	}

	for {
		select {
		case <-t.stop:
			return
		case <-t.reload:
			_ = t.Reload(context.Background())
		case <-every:
			_ = t.Reload(context.Background())
		case <-ticker.C:
			t.mu.Lock()
			open := t.session != nil
			t.mu.Unlock()
			if open {
				t.emit()
			}
		}
	}
}

func (t *Tracker) emit() {
	t.emitMu.RLock()
	defer t.emitMu.RUnlock()
	if !t.alive.Load() {
		return
	}

	t.mu.Lock()
	tick := t.snapshotLocked()
	fns := make([]func(Tick), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(tick)
	}
}

func (t *Tracker) snapshotLocked() Tick {
	now := t.now()
	tick := Tick{UserID: t.userID, At: now}
	if t.session != nil {
		s := *t.session
		tick.Session = &s
		tick.Elapsed = domain.WholeSeconds(s.StartTime, now)
	}
	return tick
}
