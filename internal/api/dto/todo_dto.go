package dto

import "time"

// TodoCreateRequest payload for new todos.
type TodoCreateRequest struct {
	Title string `json:"title"`
}

// TodoUpdateRequest carries partial updates; absent fields stay unchanged.
type TodoUpdateRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// TodoResponse is the API projection of a todo.
type TodoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
