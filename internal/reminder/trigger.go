// Package reminder decides when task reminders fire and performs the
// resulting alarm, notification and popup side effects.
package reminder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
)

// DateLayout is the stored format of domain.Task.Date.
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("time must be HH:MM")

// ParseClock converts "HH:MM" (24h) to minutes since midnight. A trailing
// ":SS" is tolerated and ignored.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// FormatMinute renders a minute of day as "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MinuteOfDay is the wall-clock minute of t in t's location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// TriggerMinute returns the minute of t.Date at which the reminder fires.
// ok is false when the task is not eligible, its time is malformed, or the
// offset reaches back past midnight (no rollover to the previous day).
func TriggerMinute(t domain.Task) (minute int, ok bool) {
	if !t.ReminderEligible() {
		return 0, false
	}
	at, err := ParseClock(t.Time)
	if err != nil {
		return 0, false
	}
	minute = at - *t.ReminderMinutes
	if minute < 0 || minute >= minutesPerDay {
		return 0, false
	}
	return minute, true
}

// Evaluator selects tasks whose reminder instant has just elapsed and
// records them in the ledger before returning them.
type Evaluator struct {
	ledger *Ledger
	// window is how many minutes late a reminder may still fire; 0 means
	// only the exact trigger minute matches.
	window int
	loc    *time.Location
}

// NewEvaluator builds an Evaluator. catchUp widens matching from the exact
// minute to "trigger <= now <= trigger+catchUp", which tolerates missed
// ticks such as device sleep. loc is the wall-clock frame of task dates
// and times; nil keeps now's own location.
func NewEvaluator(ledger *Ledger, catchUp time.Duration, loc *time.Location) *Evaluator {
	w := 0
	if catchUp > 0 {
		w = int(catchUp / time.Minute)
	}
	return &Evaluator{ledger: ledger, window: w, loc: loc}
}

// Evaluate returns the tasks to dispatch at now, in no particular order.
// Malformed or ineligible tasks are skipped, never reported as errors.
func (e *Evaluator) Evaluate(now time.Time, tasks []domain.Task) []domain.Task {
	if e.loc != nil {
		now = now.In(e.loc)
	}
	today := now.Format(DateLayout)
	nowMin := MinuteOfDay(now)

	var due []domain.Task
	for _, t := range tasks {
		minute, ok := TriggerMinute(t)
		if !ok || *t.Date != today {
			continue
		}
		late := nowMin - minute
		if late < 0 || late > e.window {
			continue
		}
		if !e.ledger.Mark(Key(t.ID, minute)) {
			continue
		}
		due = append(due, t)
	}
	return due
}

// Instant is a scheduled reminder on a given day.
type Instant struct {
	Task   domain.Task
	Minute int
	At     time.Time
}

// Schedule lists the reminder instants of tasks on day (in loc), sorted
// by time.
func Schedule(tasks []domain.Task, day time.Time, loc *time.Location) []Instant {
	if loc == nil {
		loc = day.Location()
	}
	day = day.In(loc)
	date := day.Format(DateLayout)

	var out []Instant
	for _, t := range tasks {
		minute, ok := TriggerMinute(t)
		if !ok || *t.Date != date {
			continue
		}
		at := time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, loc)
		out = append(out, Instant{Task: t, Minute: minute, At: at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minute < out[j].Minute })
	return out
}
