// Package session runs the reminder engine and the overlay navigation stack
// of one signed-in session on a single goroutine.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
	"github.com/thinkeasyacademy/Dayplanner/internal/platform"
	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"
)

var (
	ErrClosed           = errors.New("session runtime stopped")
	ErrNoActiveReminder = errors.New("no active reminder")
	// ErrReservedSurface is returned when a client tries to open the
	// reminder popup itself; only a fired reminder opens it.
	ErrReservedSurface = errors.New("surface is opened by the reminder engine")
)

const defaultFeedTimeout = 5 * time.Second

// Feed supplies the current task collection of the session's user.
type Feed interface {
	Snapshot(ctx context.Context) ([]domain.Task, error)
}

// FeedFunc adapts a function to Feed.
type FeedFunc func(ctx context.Context) ([]domain.Task, error)

func (f FeedFunc) Snapshot(ctx context.Context) ([]domain.Task, error) { return f(ctx) }

// Client is a platform whose browser clients connect over an event stream.
type Client interface {
	Subscribe(buffer int) (<-chan platform.Event, func())
	Subscribers() int
}

// Observer is told about state the presentation layer renders.
type Observer interface {
	ReminderChanged(t *domain.Task)
	OverlayClosed(kind navstack.Kind)
}

// Platform bundles the capabilities a runtime drives.
type Platform interface {
	reminder.Notifier
	reminder.Alarm
	navstack.History
	Observer
}

type Options struct {
	PollInterval time.Duration
	CatchUp      time.Duration
	Location     *time.Location
	AppName      string
	FeedTimeout  time.Duration
	Clock        reminder.Clock
	Logger       *slog.Logger
}

// State is a snapshot of what the client should be showing.
type State struct {
	ActiveReminder *domain.Task
	Overlays       []navstack.Kind
	FiredCount     int
}

// Runtime serialises clock ticks and UI events for one session: nothing
// touches the ledger, the dispatcher or the navigation stack except the
// goroutine in Run.
type Runtime struct {
	feed     Feed
	platform Platform
	clock    reminder.Clock
	sampler  *reminder.Sampler
	ledger   *reminder.Ledger
	eval     *reminder.Evaluator
	disp     *reminder.Dispatcher
	nav      *navstack.Stack
	timeout  time.Duration
	log      *slog.Logger

	snapshot []domain.Task
	cmds     chan func(context.Context)
	done     chan struct{}
}

func NewRuntime(feed Feed, p Platform, opts Options) *Runtime {
	clock := opts.Clock
	if clock == nil {
		clock = reminder.SystemClock{Location: opts.Location}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := opts.FeedTimeout
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}

	r := &Runtime{
		feed:     feed,
		platform: p,
		clock:    clock,
		sampler:  reminder.NewSampler(clock, opts.PollInterval),
		ledger:   reminder.NewLedger(),
		nav:      navstack.New(p),
		timeout:  timeout,
		log:      log,
		cmds:     make(chan func(context.Context)),
		done:     make(chan struct{}),
	}
	r.eval = reminder.NewEvaluator(r.ledger, opts.CatchUp, opts.Location)
	r.disp = reminder.NewDispatcher(p, p, r.nav,
		reminder.WithAppName(opts.AppName),
		reminder.WithActiveObserver(p.ReminderChanged),
		reminder.WithLogger(log),
	)
	return r
}

// Run processes ticks and commands until ctx is done, then stops the alarm
// and clears the ledger and navigation stack.
func (r *Runtime) Run(ctx context.Context) {
	defer close(r.done)

	sampleCtx, stopSampler := context.WithCancel(ctx)
	ticks := make(chan time.Time, 1)
	go r.sampler.Run(sampleCtx, ticks)
	defer stopSampler()

	if r.platform.Permission() == platform.PermissionDefault {
		if err := r.platform.RequestPermission(ctx); err != nil {
			r.log.Debug("notification permission not requested", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Fired notifications stay; the alarm is force-stopped.
			r.reset()
			return
		case now := <-ticks:
			r.tick(ctx, now)
		case cmd := <-r.cmds:
			cmd(ctx)
		}
	}
}

// Done is closed once Run has returned.
func (r *Runtime) Done() <-chan struct{} { return r.done }

// do runs fn on the runtime goroutine and waits for it.
func (r *Runtime) do(ctx context.Context, fn func(context.Context)) error {
	finished := make(chan struct{})
	cmd := func(c context.Context) {
		defer close(finished)
		fn(c)
	}
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-r.done:
		return ErrClosed
	}
}

// Connect subscribes a client stream to c on the runtime goroutine. A newly
// connected client never echoes history.back events sent to an earlier
// one, and neither does a client that left, so history entries still
// awaiting an echo are dropped on connect and when the last client
// disconnects. The returned func disconnects the stream.
func (r *Runtime) Connect(ctx context.Context, c Client) (<-chan platform.Event, func(), error) {
	var (
		events      <-chan platform.Event
		unsubscribe func()
	)
	err := r.do(ctx, func(context.Context) {
		events, unsubscribe = c.Subscribe(0)
		r.dropPendingHistory("client connected")
	})
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() {
		err := r.do(context.Background(), func(context.Context) {
			unsubscribe()
			if c.Subscribers() == 0 {
				r.dropPendingHistory("client disconnected")
			}
		})
		if err != nil {
			unsubscribe()
		}
	}
	return events, disconnect, nil
}

// Tick evaluates reminders now instead of waiting for the next poll, e.g.
// right after the user's tasks changed.
func (r *Runtime) Tick(ctx context.Context) error {
	return r.do(ctx, func(c context.Context) { r.tick(c, r.clock.Now()) })
}

// Back handles a back signal from the platform. It reports whether an
// overlay was closed; false means the platform default should apply.
func (r *Runtime) Back(ctx context.Context) (bool, error) {
	var closed bool
	err := r.do(ctx, func(context.Context) { closed = r.nav.OnBack() })
	return closed, err
}

// OpenOverlay registers a surface the client opened. Closing it, by back
// gesture or CloseOverlay, notifies the observer so the client hides it.
func (r *Runtime) OpenOverlay(ctx context.Context, kind navstack.Kind) error {
	if kind == navstack.ReminderPopup {
		return ErrReservedSurface
	}
	return r.do(ctx, func(context.Context) { r.open(kind) })
}

// CloseOverlay dismisses a surface explicitly. Unknown surfaces are ignored.
func (r *Runtime) CloseOverlay(ctx context.Context, kind navstack.Kind) (bool, error) {
	var closed bool
	err := r.do(ctx, func(context.Context) {
		closed = r.nav.Close(kind)
		if !closed && kind == navstack.ReminderPopup {
			r.disp.Dismiss()
		}
	})
	return closed, err
}

// DismissReminder acknowledges the active reminder.
func (r *Runtime) DismissReminder(ctx context.Context) error {
	_, err := r.CloseOverlay(ctx, navstack.ReminderPopup)
	return err
}

// ViewReminder dismisses the active reminder and opens its task in the
// editor. It returns the task to show.
func (r *Runtime) ViewReminder(ctx context.Context) (domain.Task, error) {
	var (
		task domain.Task
		err  error
	)
	doErr := r.do(ctx, func(context.Context) {
		active := r.disp.Active()
		if active == nil {
			err = ErrNoActiveReminder
			return
		}
		task = *active
		if !r.nav.Close(navstack.ReminderPopup) {
			r.disp.Dismiss()
		}
		r.open(navstack.TaskEditor)
	})
	if doErr != nil {
		return domain.Task{}, doErr
	}
	return task, err
}

func (r *Runtime) State(ctx context.Context) (State, error) {
	var st State
	err := r.do(ctx, func(context.Context) {
		st = State{
			ActiveReminder: r.disp.Active(),
			Overlays:       r.nav.Kinds(),
			FiredCount:     r.ledger.Len(),
		}
	})
	return st, err
}

// Reset clears session state at a session boundary without stopping the
// runtime.
func (r *Runtime) Reset(ctx context.Context) error {
	return r.do(ctx, func(context.Context) { r.reset() })
}

func (r *Runtime) open(kind navstack.Kind) {
	r.nav.Open(navstack.Surface{Kind: kind, OnClose: func() { r.platform.OverlayClosed(kind) }})
}

func (r *Runtime) tick(ctx context.Context, now time.Time) {
	tasks := r.snapshotTasks(ctx)
	for _, t := range r.eval.Evaluate(now, tasks) {
		r.log.Info("reminder fired", "task_id", t.ID, "time", t.Time, "reminder_minutes", *t.ReminderMinutes)
		r.disp.Dispatch(ctx, t)
	}
}

// snapshotTasks reads the feed, falling back to the last good snapshot.
func (r *Runtime) snapshotTasks(ctx context.Context) []domain.Task {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	tasks, err := r.feed.Snapshot(ctx)
	if err != nil {
		r.log.Warn("task feed unavailable, using last snapshot", "error", err, "tasks", len(r.snapshot))
		return r.snapshot
	}
	r.snapshot = tasks
	return tasks
}

func (r *Runtime) dropPendingHistory(reason string) {
	if n := r.nav.DropPendingHistory(); n > 0 {
		r.log.Debug("dropped unechoed history entries", "count", n, "reason", reason)
	}
}

// reset stops the alarm and forgets the ledger, overlays and snapshot.
func (r *Runtime) reset() {
	r.disp.Dismiss()
	r.ledger.Reset()
	r.nav.Reset()
	r.snapshot = nil
}
