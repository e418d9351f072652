package platform

import (
	"context"
	"sync"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
)

// Event names sent to browser clients over the session event stream.
const (
	EventAlarmPlay         = "alarm.play"
	EventAlarmStop         = "alarm.stop"
	EventNotificationShow  = "notification.show"
	EventPermissionRequest = "notification.request_permission"
	EventHistoryPush       = "history.push"
	EventHistoryBack       = "history.back"
	EventReminderActive    = "reminder.active"
	EventOverlayClosed     = "overlay.closed"
)

const defaultSubscriberBuffer = 32

// Event is one side effect for the client to perform.
type Event struct {
	Name string
	Data any
	At   time.Time
}

type AlarmPayload struct {
	Loop bool   `json:"loop"`
	Tone string `json:"tone"`
}

type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type SurfacePayload struct {
	Surface navstack.Kind `json:"surface"`
}

// ReminderPayload is the active reminder as rendered by the popup.
type ReminderPayload struct {
	TaskID          string  `json:"task_id"`
	Title           string  `json:"title"`
	Details         string  `json:"details,omitempty"`
	Date            *string `json:"date"`
	Time            string  `json:"time"`
	ReminderMinutes *int    `json:"reminder_minutes"`
}

// Outbox turns runtime side effects into events for connected browser
// clients. The client plays the alarm, shows notifications and drives
// window.history; it reports back gestures and permission changes over HTTP.
type Outbox struct {
	mu         sync.Mutex
	subs       map[int]chan Event
	nextID     int
	permission Permission
	tone       string
	closed     bool
}

func NewOutbox(tone string) *Outbox {
	if tone == "" {
		tone = domain.DefaultReminderTone
	}
	return &Outbox{
		subs:       make(map[int]chan Event),
		permission: PermissionDefault,
		tone:       tone,
	}
}

// Subscribe registers the client stream. A session drives one history stack,
// so a new subscriber disconnects the previous one (the most recent tab wins).
// The returned func unsubscribes and closes the channel. Events are dropped
// while the subscriber's buffer is full.
func (o *Outbox) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan Event, buffer)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		close(ch)
		return ch, func() {}
	}
	for old, c := range o.subs {
		delete(o.subs, old)
		close(c)
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if c, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(c)
			}
		})
	}
}

func (o *Outbox) Subscribers() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

// Emit delivers an event and returns how many subscribers accepted it.
func (o *Outbox) Emit(name string, data any) int {
	ev := Event{Name: name, Data: data, At: time.Now()}

	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, ch := range o.subs {
		select {
		case ch <- ev:
			n++
		default:
		}
	}
	return n
}

// Close disconnects every subscriber.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	for id, ch := range o.subs {
		delete(o.subs, id)
		close(ch)
	}
}

// SetPermission records the permission state reported by the client.
func (o *Outbox) SetPermission(p Permission) {
	o.mu.Lock()
	o.permission = p
	o.mu.Unlock()
}

func (o *Outbox) SetTone(tone string) {
	o.mu.Lock()
	o.tone = tone
	o.mu.Unlock()
}

func (o *Outbox) Permission() Permission {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.permission
}

func (o *Outbox) RequestPermission(context.Context) error {
	if o.Emit(EventPermissionRequest, nil) == 0 {
		return ErrNoSubscriber
	}
	return nil
}

func (o *Outbox) Show(_ context.Context, title, body string) error {
	if o.Emit(EventNotificationShow, NotificationPayload{Title: title, Body: body}) == 0 {
		return ErrNoSubscriber
	}
	return nil
}

func (o *Outbox) Play(loop bool) error {
	o.mu.Lock()
	tone := o.tone
	o.mu.Unlock()
	if o.Emit(EventAlarmPlay, AlarmPayload{Loop: loop, Tone: tone}) == 0 {
		return ErrNoSubscriber
	}
	return nil
}

func (o *Outbox) Stop() error {
	o.Emit(EventAlarmStop, nil)
	return nil
}

func (o *Outbox) Push(kind navstack.Kind) {
	o.Emit(EventHistoryPush, SurfacePayload{Surface: kind})
}

// Back asks connected clients to call history.back(). Their popstate comes
// back as a back signal, so Back reports true only if someone received it.
func (o *Outbox) Back() bool {
	return o.Emit(EventHistoryBack, nil) > 0
}

func (o *Outbox) ReminderChanged(t *domain.Task) {
	o.Emit(EventReminderActive, NewReminderPayload(t))
}

func (o *Outbox) OverlayClosed(kind navstack.Kind) {
	o.Emit(EventOverlayClosed, SurfacePayload{Surface: kind})
}

// NewReminderPayload returns nil for no active reminder.
func NewReminderPayload(t *domain.Task) *ReminderPayload {
	if t == nil {
		return nil
	}
	return &ReminderPayload{
		TaskID:          t.ID,
		Title:           t.Title,
		Details:         t.Details,
		Date:            t.Date,
		Time:            t.Time,
		ReminderMinutes: t.ReminderMinutes,
	}
}
