// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"plannest/internal/service"
)

type account struct {
	user     service.User
	password string
}

// Update records one UpdateTodo call.
type Update struct {
	ID     string
	Update service.TaskUpdate
}

// FakeService is an in-memory implementation of service.Service for testing.
// Todo calls fail with service.ErrUnauthenticated until a user is signed in.
type FakeService struct {
	mu       sync.Mutex
	accounts map[string]account // email -> account
	current  *service.User
	tasks    []service.Task
	nextID   int
	calls    map[string]int
	updates  []Update

	// Error injection for testing
	RegisterErr    error
	LoginErr       error
	LogoutErr      error
	CurrentUserErr error
	ListTodosErr   error
	CreateTodoErr  error
	UpdateTodoErr  error
	DeleteTodoErr  error
}

// NewFakeService creates an empty FakeService with no session.
func NewFakeService() *FakeService {
	return &FakeService{
		accounts: make(map[string]account),
		calls:    make(map[string]int),
	}
}

// AddUser registers an account without going through Register.
func (f *FakeService) AddUser(name, email, password string) service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := service.User{ID: fmt.Sprintf("u%d", len(f.accounts)+1), Name: name, Email: email}
	f.accounts[email] = account{user: u, password: password}
	return u
}

// SignIn makes u the session user, as if a login had happened earlier.
func (f *FakeService) SignIn(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = &u
}

// AddTask adds a task with a fixed id.
func (f *FakeService) AddTask(id, title, description string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Description: description, Completed: completed})
}

// ServerTasks returns the server-side collection.
func (f *FakeService) ServerTasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times a method was called, by method name.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Updates returns every UpdateTodo call in order.
func (f *FakeService) Updates() []Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Update, len(f.updates))
	copy(out, f.updates)
	return out
}

// SignedIn reports whether a session is open.
func (f *FakeService) SignedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != nil
}

func (f *FakeService) record(method string) {
	f.calls[method]++
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, name, email, password string) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")
	if f.RegisterErr != nil {
		return service.AuthResult{}, f.RegisterErr
	}
	if _, exists := f.accounts[email]; exists {
		return service.AuthResult{Success: false, Message: "User already exists"}, nil
	}
	u := service.User{ID: fmt.Sprintf("u%d", len(f.accounts)+1), Name: name, Email: email}
	f.accounts[email] = account{user: u, password: password}
	return service.AuthResult{Success: true, Message: "User registered successfully"}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")
	if f.LoginErr != nil {
		return service.AuthResult{}, f.LoginErr
	}
	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		return service.AuthResult{Success: false, Message: "Invalid credentials"}, nil
	}
	u := acct.user
	f.current = &u
	return service.AuthResult{Success: true, Message: "Login successful", User: &u}, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Logout")
	if f.LogoutErr != nil {
		return service.AuthResult{}, f.LogoutErr
	}
	f.current = nil
	return service.AuthResult{Success: true, Message: "Logged out successfully"}, nil
}

// CurrentUser implements service.Service.
func (f *FakeService) CurrentUser(ctx context.Context) (service.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentUser")
	if f.CurrentUserErr != nil {
		return service.User{}, f.CurrentUserErr
	}
	if f.current == nil {
		return service.User{}, service.ErrUnauthenticated
	}
	return *f.current, nil
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTodos")
	if err := f.check(f.ListTodosErr); err != nil {
		return nil, err
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTodo implements service.Service. Ids are assigned as t1, t2, ...
func (f *FakeService) CreateTodo(ctx context.Context, title, description string, completed bool) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTodo")
	if err := f.check(f.CreateTodoErr); err != nil {
		return service.Task{}, err
	}
	f.nextID++
	task := service.Task{
		ID:          fmt.Sprintf("t%d", f.nextID),
		Title:       title,
		Description: description,
		Completed:   completed,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id string, update service.TaskUpdate) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTodo")
	f.updates = append(f.updates, Update{ID: id, Update: update})
	if err := f.check(f.UpdateTodoErr); err != nil {
		return service.Task{}, err
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if update.Title != nil {
			f.tasks[i].Title = *update.Title
		}
		if update.Description != nil {
			f.tasks[i].Description = *update.Description
		}
		if update.Completed != nil {
			f.tasks[i].Completed = *update.Completed
		}
		return f.tasks[i], nil
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTodo")
	if err := f.check(f.DeleteTodoErr); err != nil {
		return err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// check applies injected errors and the session requirement. Caller holds mu.
func (f *FakeService) check(injected error) error {
	if injected != nil {
		return injected
	}
	if f.current == nil {
		return service.ErrUnauthenticated
	}
	return nil
}
