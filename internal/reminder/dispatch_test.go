package reminder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
	"github.com/thinkeasyacademy/Dayplanner/internal/platform"
)

type notification struct{ title, body string }

type fakeNotifier struct {
	permission platform.Permission
	showErr    error
	shown      []notification
}

func (n *fakeNotifier) Permission() platform.Permission { return n.permission }

func (n *fakeNotifier) RequestPermission(context.Context) error { return nil }

func (n *fakeNotifier) Show(_ context.Context, title, body string) error {
	if n.showErr != nil {
		return n.showErr
	}
	n.shown = append(n.shown, notification{title, body})
	return nil
}

type fakeAlarm struct {
	playErr error
	playing bool
	plays   int
	stops   int
}

func (a *fakeAlarm) Play(loop bool) error {
	a.plays++
	if a.playErr != nil {
		return a.playErr
	}
	a.playing = loop
	return nil
}

func (a *fakeAlarm) Stop() error {
	a.stops++
	a.playing = false
	return nil
}

type fakeOverlays struct{ opened []navstack.Surface }

func (o *fakeOverlays) Open(sf navstack.Surface) { o.opened = append(o.opened, sf) }

func newTestDispatcher(permission platform.Permission) (*Dispatcher, *fakeNotifier, *fakeAlarm, *fakeOverlays, *[]*domain.Task) {
	n := &fakeNotifier{permission: permission}
	a := &fakeAlarm{}
	o := &fakeOverlays{}
	var changes []*domain.Task
	d := NewDispatcher(n, a, o,
		WithAppName("Think Easy Academy"),
		WithActiveObserver(func(t *domain.Task) { changes = append(changes, t) }),
	)
	return d, n, a, o, &changes
}

func TestDispatch_AllEffects(t *testing.T) {
	d, n, a, o, changes := newTestDispatcher(platform.PermissionGranted)
	task := reminderTask("a", "09:00", 15)
	task.Title = "Stand-up"
	task.Details = "Room 4"

	d.Dispatch(context.Background(), task)

	assert.True(t, a.playing)
	assert.Equal(t, []notification{{"Think Easy Academy: Stand-up", "Room 4"}}, n.shown)
	require.Len(t, o.opened, 1)
	assert.Equal(t, navstack.ReminderPopup, o.opened[0].Kind)
	require.NotNil(t, d.Active())
	assert.Equal(t, "a", d.Active().ID)
	require.Len(t, *changes, 1)
	assert.Equal(t, "a", (*changes)[0].ID)
}

func TestDispatch_DefaultBody(t *testing.T) {
	d, n, _, _, _ := newTestDispatcher(platform.PermissionGranted)
	d.Dispatch(context.Background(), reminderTask("a", "09:00", 15))
	require.Len(t, n.shown, 1)
	assert.Equal(t, "Time for your task!", n.shown[0].body)
}

func TestDispatch_PermissionNotGranted(t *testing.T) {
	for _, p := range []platform.Permission{platform.PermissionDefault, platform.PermissionDenied, platform.PermissionUnsupported} {
		d, n, a, o, _ := newTestDispatcher(p)
		d.Dispatch(context.Background(), reminderTask("a", "09:00", 15))

		assert.Empty(t, n.shown, p)
		assert.True(t, a.playing, p)
		assert.Len(t, o.opened, 1, p)
		assert.NotNil(t, d.Active(), p)
	}
}

func TestDispatch_FailuresAreSwallowed(t *testing.T) {
	d, n, a, o, _ := newTestDispatcher(platform.PermissionGranted)
	n.showErr = errors.New("notification API missing")
	a.playErr = errors.New("autoplay blocked")

	d.Dispatch(context.Background(), reminderTask("a", "09:00", 15))

	assert.Equal(t, 1, a.plays)
	assert.Len(t, o.opened, 1)
	assert.NotNil(t, d.Active())
}

func TestDismiss_ViaPopupClose(t *testing.T) {
	d, _, a, o, changes := newTestDispatcher(platform.PermissionGranted)
	d.Dispatch(context.Background(), reminderTask("a", "09:00", 15))

	o.opened[0].OnClose()

	assert.False(t, a.playing)
	assert.Equal(t, 1, a.stops)
	assert.Nil(t, d.Active())
	require.Len(t, *changes, 2)
	assert.Nil(t, (*changes)[1])

	d.Dismiss()
	assert.Len(t, *changes, 2, "no change notification when nothing is active")
}

func TestDispatch_SecondReminderReplacesActive(t *testing.T) {
	d, _, a, o, _ := newTestDispatcher(platform.PermissionGranted)
	d.Dispatch(context.Background(), reminderTask("a", "09:00", 15))
	d.Dispatch(context.Background(), reminderTask("b", "09:00", 15))

	assert.Equal(t, 2, a.plays, "alarm restarts")
	assert.Len(t, o.opened, 1, "one popup shows the latest reminder")
	assert.Equal(t, "b", d.Active().ID)

	o.opened[0].OnClose()
	assert.Nil(t, d.Active())

	d.Dispatch(context.Background(), reminderTask("c", "09:30", 0))
	assert.Len(t, o.opened, 2, "a new popup once the previous one is gone")
}

func TestActive_ReturnsCopy(t *testing.T) {
	d, _, _, _, _ := newTestDispatcher(platform.PermissionGranted)
	d.Dispatch(context.Background(), reminderTask("a", "09:00", 15))

	got := d.Active()
	got.Title = "changed"
	assert.Equal(t, "task a", d.Active().Title)
}
