package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/devkit/toolbox-service/internal/api/dto"
	"github.com/devkit/toolbox-service/internal/auth"
	"github.com/devkit/toolbox-service/internal/domain"
	"github.com/devkit/toolbox-service/internal/service"
	apperrors "github.com/devkit/toolbox-service/pkg/util"
)

// TodosHandler exposes the guarded todo endpoints.
type TodosHandler struct {
	todos *service.TodoService
}

// NewTodosHandler constructs handler.
func NewTodosHandler(todoService *service.TodoService) *TodosHandler {
	return &TodosHandler{todos: todoService}
}

// List handles GET /api/todos.
func (h *TodosHandler) List(c *fiber.Ctx) error {
	claim, ok := auth.ClaimFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	todos, err := h.todos.List(c.Context(), claim.ID)
	if err != nil {
		return err
	}

	items := make([]dto.TodoResponse, 0, len(todos))
	for _, todo := range todos {
		items = append(items, toTodoResponse(&todo))
	}
	return c.JSON(fiber.Map{"todos": items})
}

// Create handles POST /api/todos.
func (h *TodosHandler) Create(c *fiber.Ctx) error {
	claim, ok := auth.ClaimFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TodoCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingField("invalid payload", nil)
	}

	todo, err := h.todos.Create(c.Context(), claim.ID, req.Title)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"todo": toTodoResponse(todo)})
}

// Update handles PATCH /api/todos/:id.
func (h *TodosHandler) Update(c *fiber.Ctx) error {
	claim, ok := auth.ClaimFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TodoUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingField("invalid payload", nil)
	}

	todo, err := h.todos.Update(c.Context(), claim.ID, c.Params("id"), service.TodoUpdate{
		Title: req.Title,
		Done:  req.Done,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"todo": toTodoResponse(todo)})
}

// Delete handles DELETE /api/todos/:id.
func (h *TodosHandler) Delete(c *fiber.Ctx) error {
	claim, ok := auth.ClaimFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.todos.Delete(c.Context(), claim.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func toTodoResponse(todo *domain.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Done:      todo.Done,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}
