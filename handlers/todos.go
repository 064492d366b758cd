package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type CreateTodoRequest struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// UpdateTodoRequest carries the fields to change; nil fields are untouched.
type UpdateTodoRequest struct {
	Text *string `json:"text"`
	Done *bool   `json:"done"`
}

// @Summary List todos.
// @Description fetch all todos, optionally filtered by done flag and substring.
// @Tags todos
// @Param done query bool false "filter by done flag"
// @Param q query string false "case-insensitive substring of the text"
// @Produce json
// @Success 200 {object} []models.Todo
// @Router /todos [get]
func HandleAllTodos(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var done *bool
		switch c.Query("done") {
		case "":
		case "true":
			v := true
			done = &v
		case "false":
			v := false
			done = &v
		default:
			return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "done must be true or false", nil)
		}

		todos, err := h.S.List(done, c.Query("q"))
		if err != nil {
			return h.StoreErrorResponse(c, "list", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todos", todos)
	}
}

// @Summary Create a todo.
// @Description create a single todo; text is trimmed and capped at 500 characters.
// @Tags todos
// @Accept json
// @Param todo body CreateTodoRequest true "Todo to create"
// @Produce json
// @Success 200 {object} models.Todo
// @Router /todos [post]
func HandleCreateTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		req := new(CreateTodoRequest)
		if err := c.BodyParser(req); err != nil {
			return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "request body malformed", err.Error())
		}

		todo, err := h.S.Add(req.Text, req.Done)
		if err != nil {
			return h.StoreErrorResponse(c, "add", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo created", todo)
	}
}

// @Summary Get a single todo.
// @Description fetch a single todo by id.
// @Tags todos
// @Param id path int true "Todo ID"
// @Produce json
// @Success 200 {object} models.Todo
// @Router /todos/{id} [get]
func HandleGetOneTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, ok, resp := todoID(c)
		if !ok {
			return resp
		}
		todo, err := h.S.Get(id)
		if err != nil {
			return h.StoreErrorResponse(c, "get", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo", todo)
	}
}

// @Summary Update a todo.
// @Description update text and/or done flag of a todo; at least one field is required.
// @Tags todos
// @Accept json
// @Param id path int true "Todo ID"
// @Param todo body UpdateTodoRequest true "Fields to update"
// @Produce json
// @Success 200 {object} models.Todo
// @Router /todos/{id} [put]
func HandleUpdateTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, ok, resp := todoID(c)
		if !ok {
			return resp
		}
		req := new(UpdateTodoRequest)
		if err := c.BodyParser(req); err != nil {
			return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "request body malformed", err.Error())
		}

		todo, err := h.S.Update(id, req.Text, req.Done)
		if err != nil {
			return h.StoreErrorResponse(c, "update", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo updated", todo)
	}
}

// @Summary Toggle a todo.
// @Description flip the done flag of a todo.
// @Tags todos
// @Param id path int true "Todo ID"
// @Produce json
// @Success 200 {object} models.Todo
// @Router /todos/{id}/toggle [patch]
func HandleToggleTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, ok, resp := todoID(c)
		if !ok {
			return resp
		}
		todo, err := h.S.Toggle(id)
		if err != nil {
			return h.StoreErrorResponse(c, "toggle", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo toggled", todo)
	}
}

// @Summary Delete a todo.
// @Description delete a single todo; responds with the removed todo.
// @Tags todos
// @Param id path int true "Todo ID"
// @Produce json
// @Success 200 {object} models.Todo
// @Router /todos/{id} [delete]
func HandleDeleteTodo(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		id, ok, resp := todoID(c)
		if !ok {
			return resp
		}
		todo, err := h.S.Delete(id)
		if err != nil {
			return h.StoreErrorResponse(c, "delete", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo deleted", todo)
	}
}

// @Summary Clear completed todos.
// @Description remove every done todo; responds with the number removed.
// @Tags todos
// @Produce json
// @Success 200 {object} map[string]int
// @Router /todos/completed [delete]
func HandleClearCompleted(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		cleared, err := h.S.ClearCompleted()
		if err != nil {
			return h.StoreErrorResponse(c, "clear completed", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "completed todos cleared", fiber.Map{"cleared": cleared})
	}
}

// @Summary Todo stats.
// @Description counts over the current collection plus the next id to be issued.
// @Tags todos
// @Produce json
// @Success 200 {object} models.Stats
// @Router /todos/stats [get]
func HandleTodoStats(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		stats, err := h.S.Stats()
		if err != nil {
			return h.StoreErrorResponse(c, "stats", err)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo stats", stats)
	}
}
