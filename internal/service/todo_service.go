package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devkit/toolbox-service/internal/domain"
	"github.com/devkit/toolbox-service/internal/events"
	"github.com/devkit/toolbox-service/internal/repository"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

const maxTodoTitleLen = 500

// TodoUpdate carries the mutable todo fields; nil means unchanged.
type TodoUpdate struct {
	Title *string
	Done  *bool
}

// TodoService manages a user's task list. Ownership is enforced at the
// repository layer; other users' todos behave as if they do not exist.
type TodoService struct {
	todos      repository.TodoRepository
	dispatcher events.Dispatcher
}

// NewTodoService builds the service.
func NewTodoService(todos repository.TodoRepository, dispatcher events.Dispatcher) *TodoService {
	return &TodoService{todos: todos, dispatcher: dispatcher}
}

// Create adds a todo for the given user.
func (s *TodoService) Create(ctx context.Context, userID, title string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	todo := &domain.Todo{UserID: userID, Title: title}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventTodoCreated, userID, events.TodoCreatedPayload{
		TodoID: todo.ID,
		Title:  todo.Title,
	})
	return todo, nil
}

// List returns the user's todos in creation order.
func (s *TodoService) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	todos, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return todos, nil
}

// Update applies partial changes to an owned todo.
func (s *TodoService) Update(ctx context.Context, userID, id string, update TodoUpdate) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("todo", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	completed := false
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		todo.Title = title
	}
	if update.Done != nil {
		completed = *update.Done && !todo.Done
		todo.Done = *update.Done
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("todo", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if completed {
		s.publish(ctx, events.EventTodoCompleted, userID, events.TodoCompletedPayload{TodoID: todo.ID})
	}
	return todo, nil
}

// Delete removes an owned todo.
func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	if err := s.todos.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("todo", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *TodoService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func validateTitle(title string) error {
	if title == "" {
		return apperrors.NewMissingField("Title is required", map[string]any{"field": "title"})
	}
	if len(title) > maxTodoTitleLen {
		return apperrors.NewMissingField("Title must be at most 500 characters", map[string]any{"field": "title"})
	}
	return nil
}
