package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/klofront/todo-api/handlers"
	"github.com/klofront/todo-api/store"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger.
var l = logrus.New()

func SetupRoutes(app *fiber.App, s *store.Store) {
	todoHandler := handlers.NewHandler(s, l)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hello, World!",
		})
	})

	app.Get("/health", handlers.HandleHealthCheck)

	// setup the todos group; fixed paths go before /:id
	todos := app.Group("/todos")
	todos.Get("/", handlers.HandleAllTodos(todoHandler))
	todos.Post("/", handlers.HandleCreateTodo(todoHandler))
	todos.Get("/stats", handlers.HandleTodoStats(todoHandler))
	todos.Delete("/completed", handlers.HandleClearCompleted(todoHandler))
	todos.Get("/:id", handlers.HandleGetOneTodo(todoHandler))
	todos.Put("/:id", handlers.HandleUpdateTodo(todoHandler))
	todos.Patch("/:id/toggle", handlers.HandleToggleTodo(todoHandler))
	todos.Delete("/:id", handlers.HandleDeleteTodo(todoHandler))
}
