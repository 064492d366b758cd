package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/klofront/todo-api/models"
	"github.com/klofront/todo-api/router"
	"github.com/klofront/todo-api/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	s := store.New(filepath.Join(t.TempDir(), "todos.json"), l)

	app := fiber.New()
	router.SetupRoutes(app, s)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeTodo(t *testing.T, raw json.RawMessage) models.Todo {
	t.Helper()
	var todo models.Todo
	require.NoError(t, json.Unmarshal(raw, &todo))
	return todo
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestCreateAndGetTodo(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/todos", fiber.Map{"text": "Buy milk"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)

	created := decodeTodo(t, env.Data)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Buy milk", created.Text)
	assert.False(t, created.Done)

	resp, env = doJSON(t, app, http.MethodGet, "/todos/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decodeTodo(t, env.Data))
}

func TestCreateTodoValidation(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/todos", fiber.Map{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", env.Status)
}

func TestGetTodoErrors(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/todos/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/todos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTodosWithFilters(t *testing.T) {
	app := newTestApp(t)

	for _, todo := range []fiber.Map{
		{"text": "Buy milk"},
		{"text": "Buy eggs", "done": true},
		{"text": "walk the dog"},
	} {
		resp, _ := doJSON(t, app, http.MethodPost, "/todos", todo)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, env := doJSON(t, app, http.MethodGet, "/todos", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var todos []models.Todo
	require.NoError(t, json.Unmarshal(env.Data, &todos))
	assert.Len(t, todos, 3)

	resp, env = doJSON(t, app, http.MethodGet, "/todos?done=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy eggs", todos[0].Text)

	resp, env = doJSON(t, app, http.MethodGet, "/todos?done=false&q=buy", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Text)

	resp, _ = doJSON(t, app, http.MethodGet, "/todos?done=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTodo(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/todos", fiber.Map{"text": "Buy milk"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPut, "/todos/1", fiber.Map{"text": "Buy oat milk", "done": true})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeTodo(t, env.Data)
	assert.Equal(t, "Buy oat milk", updated.Text)
	assert.True(t, updated.Done)

	// no fields supplied
	resp, _ = doJSON(t, app, http.MethodPut, "/todos/1", fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/todos/999", fiber.Map{"text": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleTodo(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/todos", fiber.Map{"text": "Buy milk"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPatch, "/todos/1/toggle", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeTodo(t, env.Data).Done)

	resp, env = doJSON(t, app, http.MethodPatch, "/todos/1/toggle", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeTodo(t, env.Data).Done)

	resp, _ = doJSON(t, app, http.MethodPatch, "/todos/999/toggle", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteTodo(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/todos", fiber.Map{"text": "Buy milk"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodDelete, "/todos/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Buy milk", decodeTodo(t, env.Data).Text)

	resp, _ = doJSON(t, app, http.MethodDelete, "/todos/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClearCompletedTodos(t *testing.T) {
	app := newTestApp(t)

	for _, todo := range []fiber.Map{
		{"text": "open"},
		{"text": "done one", "done": true},
		{"text": "done two", "done": true},
	} {
		resp, _ := doJSON(t, app, http.MethodPost, "/todos", todo)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, env := doJSON(t, app, http.MethodDelete, "/todos/completed", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, 2, payload["cleared"])

	resp, env = doJSON(t, app, http.MethodGet, "/todos", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var todos []models.Todo
	require.NoError(t, json.Unmarshal(env.Data, &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, "open", todos[0].Text)
}

func TestTodoStats(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, app, http.MethodPost, "/todos", fiber.Map{"text": fmt.Sprintf("task %d", i), "done": i%2 == 0})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, env := doJSON(t, app, http.MethodGet, "/todos/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Done)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 4, stats.NextID)
	assert.Equal(t, stats.Total, stats.Open+stats.Done)
}
