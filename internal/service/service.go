// Package service defines the backend-agnostic interface for PlanNest operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated is returned when the API rejects the session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound is returned when the API reports a missing resource.
	ErrNotFound = errors.New("not found")
)

// Identity resolves the user behind the current session.
type Identity interface {
	// CurrentUser returns the authenticated user.
	// Returns ErrUnauthenticated when there is no valid session.
	CurrentUser(ctx context.Context) (User, error)
}

// Todos is the task half of the API, scoped to the session's user.
type Todos interface {
	// ListTodos returns all tasks in server order.
	ListTodos(ctx context.Context) ([]Task, error)

	// CreateTodo creates a task. The returned record carries the server-assigned ID.
	CreateTodo(ctx context.Context, title, description string, completed bool) (Task, error)

	// UpdateTodo applies a partial update and returns the updated record.
	UpdateTodo(ctx context.Context, id string, update TaskUpdate) (Task, error)

	// DeleteTodo removes a task.
	DeleteTodo(ctx context.Context, id string) error
}

// Service defines the interface for all backend operations.
// Commands never talk HTTP directly.
type Service interface {
	Identity
	Todos

	// Register creates an account. It does not log the user in.
	Register(ctx context.Context, name, email, password string) (AuthResult, error)

	// Login opens a session. On success the result carries the user.
	Login(ctx context.Context, email, password string) (AuthResult, error)

	// Logout closes the current session.
	Logout(ctx context.Context) (AuthResult, error)
}
