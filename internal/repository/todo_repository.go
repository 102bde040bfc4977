package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/devkit/toolbox-service/internal/domain"
)

// TodoRepository defines persistence access for per-user todos. Every
// query is scoped by owner; rows belonging to other users behave as if
// they do not exist.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, userID, id string) error
}

type todoRepository struct {
	db DB
}

// NewTodoRepository returns a Postgres-backed implementation.
func NewTodoRepository(db DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	const query = `
        INSERT INTO todos (user_id, title, done)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Done,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
}

func (r *todoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	const query = `
        SELECT id, user_id, title, done, created_at, updated_at
        FROM todos WHERE user_id=$1
        ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.UserID,
			&todo.Title,
			&todo.Done,
			&todo.CreatedAt,
			&todo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (r *todoRepository) GetByID(ctx context.Context, userID, id string) (*domain.Todo, error) {
	const query = `
        SELECT id, user_id, title, done, created_at, updated_at
        FROM todos WHERE id=$1 AND user_id=$2`

	var todo domain.Todo
	if err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Done,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	const query = `
        UPDATE todos SET title=$1, done=$2, updated_at=NOW()
        WHERE id=$3 AND user_id=$4`

	cmd, err := r.db.Exec(ctx, query,
		todo.Title,
		todo.Done,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM todos WHERE id=$1 AND user_id=$2`

	cmd, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
