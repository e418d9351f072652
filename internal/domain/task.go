package domain

import "time"

// TaskType distinguishes timeline tasks from notes.
type TaskType string

const (
	TaskTypeTask TaskType = "task"
	TaskTypeNote TaskType = "note"
)

// Task is a planner item owned by one user.
// Not tied to Gin, Postgres or Redis.
type Task struct {
	ID          string
	UserID      int64
	ProjectID   *string
	Type        TaskType
	Title       string
	Description string
	Details     string
	IsBigNote   bool

	// Date is the local calendar day ("2006-01-02"). Nil means unplanned.
	Date *string
	// Time is the local wall-clock time of day ("15:04"), used only when Date is set.
	Time string
	// ReminderMinutes is how long before Time the reminder fires. Nil means no reminder.
	ReminderMinutes *int
	Completed       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Planned reports whether the task is scheduled on a day.
func (t Task) Planned() bool {
	return t.Date != nil && *t.Date != ""
}

// ReminderEligible reports whether the task can ever produce a reminder.
// It does not validate the Time format.
func (t Task) ReminderEligible() bool {
	return t.Planned() &&
		t.Time != "" &&
		t.ReminderMinutes != nil && *t.ReminderMinutes >= 0 &&
		!t.Completed
}
