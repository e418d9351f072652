package dto

import "time"

type CreateTaskRequest struct {
	ProjectID       *string `json:"project_id"`
	Type            string  `json:"type" binding:"omitempty,oneof=task note"`
	Title           string  `json:"title" binding:"required,min=1,max=200"`
	Description     string  `json:"description" binding:"max=2000"`
	Details         string  `json:"details" binding:"max=10000"`
	IsBigNote       bool    `json:"is_big_note"`
	Date            *string `json:"date" binding:"omitempty,ymd"`               // "2025-03-10"; null = unplanned
	Time            string  `json:"time" binding:"omitempty,clock"`             // "09:30"
	ReminderMinutes *int    `json:"reminder_minutes" binding:"omitempty,min=0"` // null = no reminder
}

// UpdateTaskRequest changes the fields present in the body. "date": "" unplans
// the task, "project_id": "" unassigns it and "reminder_minutes": -1 removes
// the reminder.
type UpdateTaskRequest struct {
	ProjectID       *string `json:"project_id"`
	Type            *string `json:"type" binding:"omitempty,oneof=task note"`
	Title           *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description     *string `json:"description" binding:"omitempty,max=2000"`
	Details         *string `json:"details" binding:"omitempty,max=10000"`
	IsBigNote       *bool   `json:"is_big_note"`
	Date            *string `json:"date" binding:"omitempty,ymd"`
	Time            *string `json:"time" binding:"omitempty,clock"`
	ReminderMinutes *int    `json:"reminder_minutes" binding:"omitempty,min=-1"`
	Completed       *bool   `json:"completed"`
}

type TaskResponse struct {
	ID              string    `json:"id"`
	ProjectID       *string   `json:"project_id"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Details         string    `json:"details"`
	IsBigNote       bool      `json:"is_big_note"`
	Date            *string   `json:"date"`
	Time            string    `json:"time"`
	ReminderMinutes *int      `json:"reminder_minutes"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

type SummaryResponse struct {
	Date      string `json:"date"`
	Todo      int    `json:"todo"`
	Upcoming  int    `json:"upcoming"`
	Unplanned int    `json:"unplanned"`
	Notes     int    `json:"notes"`
	Completed int    `json:"completed"`
}
