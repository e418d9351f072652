package reminder

import (
	"context"
	"log/slog"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
	"github.com/thinkeasyacademy/Dayplanner/internal/platform"
)

const defaultNotificationBody = "Time for your task!"

// Notifier shows system notifications.
type Notifier interface {
	Permission() platform.Permission
	RequestPermission(ctx context.Context) error
	Show(ctx context.Context, title, body string) error
}

// Alarm plays the reminder sound. Only one alarm plays at a time; Play
// restarts it.
type Alarm interface {
	Play(loop bool) error
	// Stop stops and rewinds the sound.
	Stop() error
}

// Overlays receives the reminder popup surface.
type Overlays interface {
	Open(sf navstack.Surface)
}

// Dispatcher performs the side effects of a fired reminder. Every effect
// is best-effort: failures are logged and never returned. A Dispatcher is
// owned by one goroutine.
type Dispatcher struct {
	notifier Notifier
	alarm    Alarm
	overlays Overlays
	appName  string
	log      *slog.Logger

	active   *domain.Task
	onChange func(*domain.Task)
}

type DispatcherOption func(*Dispatcher)

// WithAppName prefixes notification titles.
func WithAppName(name string) DispatcherOption {
	return func(d *Dispatcher) { d.appName = name }
}

// WithActiveObserver is called whenever the active reminder changes.
func WithActiveObserver(fn func(*domain.Task)) DispatcherOption {
	return func(d *Dispatcher) { d.onChange = fn }
}

func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

func NewDispatcher(n Notifier, a Alarm, o Overlays, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{notifier: n, alarm: a, overlays: o, log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch rings the alarm, shows a system notification when permitted,
// makes t the active reminder and opens the reminder popup. While a popup is
// already open, t replaces its reminder and no second popup is opened.
func (d *Dispatcher) Dispatch(ctx context.Context, t domain.Task) {
	if err := d.alarm.Play(true); err != nil {
		d.log.Debug("reminder alarm not played", "task_id", t.ID, "error", err)
	}

	if d.notifier.Permission() == platform.PermissionGranted {
		if err := d.notifier.Show(ctx, d.title(t), body(t)); err != nil {
			d.log.Debug("reminder notification not shown", "task_id", t.ID, "error", err)
		}
	}

	// The popup is open exactly while a reminder is active.
	popupOpen := d.active != nil
	d.setActive(&t)
	if !popupOpen {
		d.overlays.Open(navstack.Surface{Kind: navstack.ReminderPopup, OnClose: d.Dismiss})
	}
}

// Dismiss acknowledges the active reminder: the alarm stops and the
// active reminder is cleared. The ledger is untouched, so it never re-fires.
func (d *Dispatcher) Dismiss() {
	if err := d.alarm.Stop(); err != nil {
		d.log.Debug("reminder alarm not stopped", "error", err)
	}
	if d.active != nil {
		d.setActive(nil)
	}
}

// Active returns a copy of the active reminder, or nil.
func (d *Dispatcher) Active() *domain.Task {
	if d.active == nil {
		return nil
	}
	t := *d.active
	return &t
}

func (d *Dispatcher) setActive(t *domain.Task) {
	d.active = t
	if d.onChange != nil {
		d.onChange(d.Active())
	}
}

func (d *Dispatcher) title(t domain.Task) string {
	if d.appName == "" {
		return t.Title
	}
	return d.appName + ": " + t.Title
}

func body(t domain.Task) string {
	if t.Details != "" {
		return t.Details
	}
	return defaultNotificationBody
}
