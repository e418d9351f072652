package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
)

func ptr[T any](v T) *T { return &v }

var loc = time.FixedZone("TRT", 3*60*60)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 17, 0, loc)
}

func reminderTask(id, clock string, offset int) domain.Task {
	return domain.Task{
		ID:              id,
		Title:           "task " + id,
		Date:            ptr("2026-03-14"),
		Time:            clock,
		ReminderMinutes: ptr(offset),
	}
}

func ids(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestParseClock(t *testing.T) {
	valid := map[string]int{
		"00:00":    0,
		"09:00":    540,
		"9:05":     545,
		"23:59":    1439,
		"08:45:00": 525,
	}
	for in, want := range valid {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "9", "24:00", "12:60", "12:5", "ab:cd", "1:2:3:4"} {
		_, err := ParseClock(in)
		assert.ErrorIs(t, err, ErrInvalidClock, in)
	}
}

func TestTriggerMinute(t *testing.T) {
	m, ok := TriggerMinute(reminderTask("a", "09:00", 15))
	require.True(t, ok)
	assert.Equal(t, 8*60+45, m)
	assert.Equal(t, "08:45", FormatMinute(m))

	m, ok = TriggerMinute(reminderTask("b", "09:00", 0))
	require.True(t, ok)
	assert.Equal(t, 540, m)

	_, ok = TriggerMinute(reminderTask("c", "00:10", 30))
	assert.False(t, ok, "no rollover to the previous day")

	_, ok = TriggerMinute(reminderTask("d", "noon", 5))
	assert.False(t, ok, "malformed time is excluded, not an error")
}

func TestEvaluate_ExactMinute(t *testing.T) {
	tasks := []domain.Task{reminderTask("a", "09:00", 15)}
	e := NewEvaluator(NewLedger(), 0, loc)

	assert.Empty(t, e.Evaluate(at(8, 44), tasks))
	assert.Equal(t, []string{"a"}, ids(e.Evaluate(at(8, 45), tasks)))
	assert.Empty(t, e.Evaluate(at(8, 45).Add(20*time.Second), tasks), "duplicate poll in the same minute")
	assert.Empty(t, e.Evaluate(at(8, 46), tasks))
}

func TestEvaluate_TickAt0846DoesNotFireUnfiredTask(t *testing.T) {
	e := NewEvaluator(NewLedger(), 0, loc)
	assert.Empty(t, e.Evaluate(at(8, 46), []domain.Task{reminderTask("a", "09:00", 15)}))
}

func TestEvaluate_PollCadenceCoversMinuteExactlyOnce(t *testing.T) {
	tasks := []domain.Task{reminderTask("a", "09:00", 15)}
	e := NewEvaluator(NewLedger(), 0, loc)

	fired := 0
	now := time.Date(2026, 3, 14, 8, 40, 3, 0, loc)
	for i := 0; i < 60; i++ {
		fired += len(e.Evaluate(now, tasks))
		now = now.Add(20 * time.Second)
	}
	assert.Equal(t, 1, fired)
}

func TestEvaluate_SkipsIneligible(t *testing.T) {
	done := reminderTask("done", "09:00", 15)
	done.Completed = true
	unplanned := reminderTask("unplanned", "09:00", 15)
	unplanned.Date = nil
	noTime := reminderTask("no-time", "", 15)
	noReminder := reminderTask("no-reminder", "09:00", 15)
	noReminder.ReminderMinutes = nil
	tomorrow := reminderTask("tomorrow", "09:00", 15)
	tomorrow.Date = ptr("2026-03-15")
	negative := reminderTask("negative", "00:10", 30)

	tasks := []domain.Task{done, unplanned, noTime, noReminder, tomorrow, negative}
	e := NewEvaluator(NewLedger(), 0, loc)
	for minute := 0; minute < minutesPerDay; minute++ {
		now := time.Date(2026, 3, 14, minute/60, minute%60, 0, 0, loc)
		require.Empty(t, e.Evaluate(now, tasks), "minute %d", minute)
	}
}

func TestEvaluate_EditRearms(t *testing.T) {
	ledger := NewLedger()
	e := NewEvaluator(ledger, 0, loc)

	task := reminderTask("a", "09:00", 15)
	require.Len(t, e.Evaluate(at(8, 45), []domain.Task{task}), 1)

	task.Time = "09:30"
	assert.Equal(t, []string{"a"}, ids(e.Evaluate(at(9, 15), []domain.Task{task})))

	task.ReminderMinutes = ptr(5)
	assert.Equal(t, []string{"a"}, ids(e.Evaluate(at(9, 25), []domain.Task{task})))
	assert.Empty(t, e.Evaluate(at(9, 25), []domain.Task{task}))

	assert.True(t, ledger.Has(Key("a", 525)))
	assert.True(t, ledger.Has(Key("a", 555)))
	assert.Equal(t, 3, ledger.Len())
}

func TestEvaluate_UsesEvaluatorLocation(t *testing.T) {
	e := NewEvaluator(NewLedger(), 0, loc)
	utc := at(8, 45).UTC() // 05:45 UTC
	assert.Len(t, e.Evaluate(utc, []domain.Task{reminderTask("a", "09:00", 15)}), 1)
}

func TestEvaluate_SimultaneousTasks(t *testing.T) {
	tasks := []domain.Task{
		reminderTask("a", "09:00", 15),
		reminderTask("b", "08:45", 0),
		reminderTask("c", "10:00", 75),
		reminderTask("d", "10:00", 60),
	}
	e := NewEvaluator(NewLedger(), 0, loc)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids(e.Evaluate(at(8, 45), tasks)))
}

func TestEvaluate_CatchUpWindow(t *testing.T) {
	tasks := []domain.Task{reminderTask("a", "09:00", 15)}
	e := NewEvaluator(NewLedger(), 10*time.Minute, loc)

	assert.Empty(t, e.Evaluate(at(8, 44), tasks))
	// Device slept through 08:45; waking at 08:52 still fires once.
	assert.Len(t, e.Evaluate(at(8, 52), tasks), 1)
	assert.Empty(t, e.Evaluate(at(8, 53), tasks))

	late := NewEvaluator(NewLedger(), 10*time.Minute, loc)
	assert.Empty(t, late.Evaluate(at(8, 56), tasks))
}

func TestEvaluate_ConcurrentCallsEmitOnce(t *testing.T) {
	tasks := []domain.Task{reminderTask("a", "09:00", 15), reminderTask("b", "09:00", 15)}
	e := NewEvaluator(NewLedger(), 0, loc)

	var mu sync.Mutex
	var got []string
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := e.Evaluate(at(8, 45), tasks)
			mu.Lock()
			got = append(got, ids(out)...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestLedger_Reset(t *testing.T) {
	l := NewLedger()
	assert.True(t, l.Mark("a-525"))
	assert.False(t, l.Mark("a-525"))
	l.Reset()
	assert.False(t, l.Has("a-525"))
	assert.True(t, l.Mark("a-525"))
}

func TestSchedule(t *testing.T) {
	tasks := []domain.Task{
		reminderTask("late", "18:00", 0),
		reminderTask("early", "09:00", 15),
		reminderTask("negative", "00:10", 30),
	}
	other := reminderTask("other-day", "09:00", 15)
	other.Date = ptr("2026-03-15")
	tasks = append(tasks, other)

	got := Schedule(tasks, at(12, 0), loc)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].Task.ID)
	assert.Equal(t, time.Date(2026, 3, 14, 8, 45, 0, 0, loc), got[0].At)
	assert.Equal(t, "late", got[1].Task.ID)
}
