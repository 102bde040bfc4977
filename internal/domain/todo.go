package domain

import "time"

// Todo is a single task owned by a user.
type Todo struct {
	ID        string
	UserID    string
	Title     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
