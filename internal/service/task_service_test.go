package service

import (
	"context"
	"testing"
	"time"

	dom "github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/reminder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser int64 = 7

var testLoc = time.FixedZone("TRT", 3*60*60)

func ptr[T any](v T) *T { return &v }

func newTestTaskService(tasks ...dom.Task) (*TaskService, *fakeTaskRepo, *fakeCache, *fakePublisher) {
	r := newFakeTaskRepo(tasks...)
	c := newFakeCache()
	p := &fakePublisher{}
	clock := reminder.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc))
	return NewTaskService(r, c, p, clock), r, c, p
}

func fixture(title string, date *string, completed bool) dom.Task {
	return dom.Task{
		ID:        uuid.NewString(),
		UserID:    testUser,
		Type:      dom.TaskTypeTask,
		Title:     title,
		Date:      date,
		Completed: completed,
	}
}

func titles(list []dom.Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Title
	}
	return out
}

func TestTaskService_CreateNormalizes(t *testing.T) {
	svc, _, c, p := newTestTaskService()

	got, err := svc.Create(context.Background(), testUser, TaskFields{
		Title:           "  Stand-up  ",
		Date:            ptr("2025-03-10"),
		Time:            "9:05:30",
		ReminderMinutes: ptr(10),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(got.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Stand-up", got.Title)
	assert.Equal(t, dom.TaskTypeTask, got.Type)
	assert.Equal(t, "09:05", got.Time)
	assert.Equal(t, testUser, got.UserID)
	assert.Equal(t, []int64{testUser}, p.users)
	assert.Equal(t, 1, c.invalidated)
}

func TestTaskService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields TaskFields
		want   error
	}{
		{"empty title", TaskFields{Title: "  "}, ErrEmptyTitle},
		{"bad time", TaskFields{Title: "a", Date: ptr("2025-03-10"), Time: "25:00"}, ErrInvalidTime},
		{"one-digit minutes", TaskFields{Title: "a", Time: "10:5"}, ErrInvalidTime},
		{"bad date", TaskFields{Title: "a", Date: ptr("10/03/2025")}, ErrInvalidDate},
		{"negative reminder", TaskFields{Title: "a", ReminderMinutes: ptr(-5)}, ErrInvalidReminder},
		{"bad type", TaskFields{Title: "a", Type: "event"}, ErrInvalidType},
		{"bad project id", TaskFields{Title: "a", ProjectID: ptr("nope")}, ErrInvalidProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, p := newTestTaskService()
			_, err := svc.Create(context.Background(), testUser, tt.fields)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, p.users)
		})
	}
}

func TestTaskService_CreateUnknownProject(t *testing.T) {
	svc, r, _, _ := newTestTaskService()
	r.fkErr = true

	_, err := svc.Create(context.Background(), testUser, TaskFields{Title: "a", ProjectID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, ErrInvalidProject)
}

func TestTaskService_UpdateClearsReminderAndDate(t *testing.T) {
	task := fixture("Stand-up", ptr("2025-03-10"), false)
	task.Time = "10:00"
	task.ReminderMinutes = ptr(15)
	svc, _, _, p := newTestTaskService(task)

	got, err := svc.Update(context.Background(), testUser, task.ID, TaskPatch{ReminderMinutes: ptr(ClearReminder)})
	require.NoError(t, err)
	assert.Nil(t, got.ReminderMinutes)
	assert.Equal(t, "10:00", got.Time)

	got, err = svc.Update(context.Background(), testUser, task.ID, TaskPatch{Date: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, got.Date)
	assert.False(t, got.Planned())
	assert.Len(t, p.users, 2)
}

func TestTaskService_UpdateRejectsBadTime(t *testing.T) {
	task := fixture("Stand-up", ptr("2025-03-10"), false)
	svc, r, _, _ := newTestTaskService(task)

	_, err := svc.Update(context.Background(), testUser, task.ID, TaskPatch{Time: ptr("noon")})
	assert.ErrorIs(t, err, ErrInvalidTime)
	assert.Equal(t, "", r.tasks[task.ID].Time)
}

func TestTaskService_NotFound(t *testing.T) {
	other := fixture("theirs", nil, false)
	other.UserID = 99
	svc, _, _, _ := newTestTaskService(other)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, testUser, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetByID(ctx, testUser, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, testUser, other.ID, TaskPatch{Title: ptr("mine")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, testUser, other.ID), ErrNotFound)
	_, err = svc.Toggle(ctx, testUser, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_Toggle(t *testing.T) {
	task := fixture("Stand-up", ptr("2025-03-10"), false)
	svc, _, _, p := newTestTaskService(task)

	got, err := svc.Toggle(context.Background(), testUser, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = svc.Toggle(context.Background(), testUser, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Len(t, p.users, 2)
}

func TestTaskService_ListReadsThroughCache(t *testing.T) {
	svc, r, _, _ := newTestTaskService(fixture("a", nil, false))
	ctx := context.Background()

	_, err := svc.List(ctx, testUser)
	require.NoError(t, err)
	list, err := svc.List(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, r.listCalls)

	_, err = svc.Create(ctx, testUser, TaskFields{Title: "b"})
	require.NoError(t, err)
	list, err = svc.List(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, r.listCalls)
}

func TestTaskService_Filter(t *testing.T) {
	note := fixture("idea", nil, false)
	note.Type = dom.TaskTypeNote
	svc, _, _, _ := newTestTaskService(
		fixture("today open", ptr("2025-03-10"), false),
		fixture("today done", ptr("2025-03-10"), true),
		fixture("tomorrow", ptr("2025-03-11"), false),
		fixture("yesterday", ptr("2025-03-09"), false),
		note,
	)
	ctx := context.Background()

	tests := []struct {
		filter Filter
		day    string
		want   []string
	}{
		{FilterTodo, "", []string{"today open"}},
		{FilterTodo, "2025-03-09", []string{"yesterday"}},
		{FilterUpcoming, "", []string{"tomorrow"}},
		{FilterUnplanned, "", []string{"idea"}},
		{FilterNotes, "", []string{"idea"}},
		{FilterAll, "2025-03-10", []string{"today open", "today done"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter)+tt.day, func(t *testing.T) {
			got, err := svc.Filter(ctx, testUser, tt.filter, tt.day)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, titles(got))
		})
	}

	all, err := svc.Filter(ctx, testUser, FilterAll, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = svc.Filter(ctx, testUser, FilterTodo, "March")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestTaskService_Summary(t *testing.T) {
	note := fixture("idea", nil, false)
	note.Type = dom.TaskTypeNote
	svc, _, _, _ := newTestTaskService(
		fixture("today open", ptr("2025-03-10"), false),
		fixture("today done", ptr("2025-03-10"), true),
		fixture("tomorrow", ptr("2025-03-11"), false),
		fixture("later done", ptr("2025-03-12"), true),
		note,
	)

	got, err := svc.Summary(context.Background(), testUser, "")
	require.NoError(t, err)
	assert.Equal(t, Summary{Date: "2025-03-10", Todo: 1, Upcoming: 1, Unplanned: 1, Notes: 1, Completed: 1}, got)
}

func TestTaskService_Schedule(t *testing.T) {
	late := fixture("late", ptr("2025-03-10"), false)
	late.Time, late.ReminderMinutes = "18:00", ptr(30)
	early := fixture("early", ptr("2025-03-10"), false)
	early.Time, early.ReminderMinutes = "08:00", ptr(0)
	silent := fixture("silent", ptr("2025-03-10"), false)
	silent.Time = "12:00"
	svc, _, _, _ := newTestTaskService(late, early, silent)

	got, err := svc.Schedule(context.Background(), testUser, time.Date(2025, 3, 10, 0, 0, 0, 0, testLoc))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].Task.Title)
	assert.Equal(t, "late", got[1].Task.Title)
	assert.Equal(t, 17*60+30, got[1].Minute)
}

func TestTaskService_Search(t *testing.T) {
	svc, _, c, _ := newTestTaskService(fixture("Buy milk", nil, false), fixture("Call mom", nil, false))

	got, err := svc.Search(context.Background(), testUser, "  MILK ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk"}, titles(got))
	assert.Len(t, c.searches["MILK"], 1)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter("Upcoming")
	require.NoError(t, err)
	assert.Equal(t, FilterUpcoming, f)

	_, err = ParseFilter("overdue")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
