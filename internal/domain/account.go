package domain

import "time"

// User is a sign-in account. Profile, projects and tasks are keyed by its
// ID and go away with it.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// DefaultReminderTone is used until the user picks another one.
const DefaultReminderTone = "louder"

// Profile holds per-user display settings.
type Profile struct {
	UserID       int64
	Name         string
	Email        string
	Avatar       *string
	ReminderTone string
	DarkMode     bool
	UpdatedAt    time.Time
}
