package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/thinkeasyacademy/Dayplanner/internal/platform"
)

// FeedFactory returns the task feed of a user.
type FeedFactory func(userID int64) Feed

// Handle is a running session runtime and the outbox its browser clients
// subscribe to.
type Handle struct {
	SessionID string
	UserID    int64
	Runtime   *Runtime
	Outbox    *platform.Outbox

	cancel context.CancelFunc
}

// stop cancels the runtime, waits for its teardown effects to be emitted
// and disconnects the clients.
func (h *Handle) stop() {
	h.cancel()
	<-h.Runtime.Done()
	h.Outbox.Close()
}

// Manager keeps one runtime per signed-in session.
type Manager struct {
	mu      sync.Mutex
	handles map[string]*Handle
	feeds   FeedFactory
	opts    Options
	log     *slog.Logger
}

func NewManager(feeds FeedFactory, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		handles: make(map[string]*Handle),
		feeds:   feeds,
		opts:    opts,
		log:     log,
	}
}

// Attach returns the runtime of sessionID, starting it on first use. A
// session ID reused by another user gets a fresh runtime.
func (m *Manager) Attach(sessionID string, userID int64, tone string) *Handle {
	m.mu.Lock()
	h, ok := m.handles[sessionID]
	if ok && h.UserID == userID {
		m.mu.Unlock()
		return h
	}
	if ok {
		delete(m.handles, sessionID)
	}
	fresh := m.start(sessionID, userID, tone)
	m.handles[sessionID] = fresh
	m.mu.Unlock()

	if ok {
		h.stop()
	}
	return fresh
}

func (m *Manager) start(sessionID string, userID int64, tone string) *Handle {
	log := m.log.With("session", shortID(sessionID), "user_id", userID)
	opts := m.opts
	opts.Logger = log

	out := platform.NewOutbox(tone)
	rt := NewRuntime(m.feeds(userID), out, opts)
	ctx, cancel := context.WithCancel(context.Background())
	go rt.Run(ctx)

	log.Info("session runtime started")
	return &Handle{SessionID: sessionID, UserID: userID, Runtime: rt, Outbox: out, cancel: cancel}
}

func (m *Manager) Get(sessionID string) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[sessionID]
	return h, ok
}

// End stops the runtime of sessionID, e.g. on logout. The alarm is stopped
// and the ledger and navigation stack are dropped with it.
func (m *Manager) End(sessionID string) {
	m.mu.Lock()
	h, ok := m.handles[sessionID]
	delete(m.handles, sessionID)
	m.mu.Unlock()
	if !ok {
		return
	}
	h.stop()
	m.log.Info("session runtime stopped", "session", shortID(sessionID), "user_id", h.UserID)
}

// EndUser stops every runtime of userID.
func (m *Manager) EndUser(userID int64) {
	for _, h := range m.byUser(userID) {
		m.End(h.SessionID)
	}
}

// Poke re-evaluates reminders of every session of userID, typically after
// their tasks changed.
func (m *Manager) Poke(ctx context.Context, userID int64) {
	for _, h := range m.byUser(userID) {
		if err := h.Runtime.Tick(ctx); err != nil {
			m.log.Debug("poke skipped", "session", shortID(h.SessionID), "error", err)
		}
	}
}

// SetTone changes the alarm tone of every session of userID.
func (m *Manager) SetTone(userID int64, tone string) {
	for _, h := range m.byUser(userID) {
		h.Outbox.SetTone(tone)
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// Shutdown stops all runtimes. It returns ctx.Err() if they do not finish
// in time.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.handles))
	for id, h := range m.handles {
		handles = append(handles, h)
		delete(m.handles, id)
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for _, h := range handles {
			wg.Add(1)
			go func(h *Handle) {
				defer wg.Done()
				h.stop()
			}(h)
		}
		wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) byUser(userID int64) []*Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Handle
	for _, h := range m.handles {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out
}

// shortID keeps session IDs out of logs.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
