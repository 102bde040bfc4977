package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserSignedIn   EventType = "user_signed_in"
	EventTodoCreated    EventType = "todo_created"
	EventTodoCompleted  EventType = "todo_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserSignedInPayload payload.
type UserSignedInPayload struct {
	Email string `json:"email"`
}

// TodoCreatedPayload payload.
type TodoCreatedPayload struct {
	TodoID string `json:"todo_id"`
	Title  string `json:"title"`
}

// TodoCompletedPayload payload.
type TodoCompletedPayload struct {
	TodoID string `json:"todo_id"`
}
