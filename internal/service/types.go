// Package service defines the backend-agnostic interface for PlanNest operations.
package service

// User is the identity record returned by the API.
// Opaque beyond display use.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task represents a single to-do item as the server stores it.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
}

// TaskUpdate is a partial update. Nil fields are left untouched server-side.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// AuthResult is the envelope returned by the auth endpoints.
// User is only set by a successful login.
type AuthResult struct {
	Success bool
	Message string
	User    *User
}
