package domain

import "time"

// Project groups tasks on the board view.
type Project struct {
	ID        string
	UserID    int64
	Name      string
	Color     string
	CreatedAt time.Time
}
