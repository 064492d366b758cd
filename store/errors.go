package store

import "fmt"

// ValidationError reports malformed or missing input. The transport layer
// maps it to a client-error response; it is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a todo id that is not present in the collection.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("todo %d not found", e.ID) }
