package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/klofront/todo-api/config"
	"github.com/klofront/todo-api/router"
	"github.com/klofront/todo-api/store"
	"github.com/sirupsen/logrus"
)

// SetupAndRunApp wires config, store, middleware and routes, then runs the
// server until shutdown.
func SetupAndRunApp() error {
	// load environment
	if err := config.LoadENV(); err != nil {
		return err
	}

	// open the todo store; Load seeds the file and proves the path is writable
	s := store.New(config.GetEnv("TODO_FILE", "data/todos.json"), logrus.New())
	if _, err := s.Load(); err != nil {
		return err
	}

	// create app
	app := fiber.New()

	// attach middleware
	FiberMiddleware(app)

	// setup routes
	router.SetupRoutes(app, s)

	// attach swagger
	config.AddSwaggerRoutes(app)

	StartServerWithGracefulShutdown(app)

	return nil
}
