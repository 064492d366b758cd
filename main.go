package main

import (
	"github.com/klofront/todo-api/app"
	_ "github.com/klofront/todo-api/docs"
)

// @title Todo File API
// @version 0.1
// @description REST API for a todo list persisted as a single JSON file.
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
