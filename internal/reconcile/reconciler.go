// Package reconcile keeps a local copy of the user's tasks aligned with the server.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"plannest/internal/service"
)

var (
	// ErrValidation is the class of all local input errors. No request is made.
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotFound is returned when an id isn't in the local list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrRefresh is returned when a mutation succeeded but the follow-up
	// fetch failed. The list stays marked stale.
	ErrRefresh = errors.New("failed to refresh tasks")
)

// ValidationError names the required field that was empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Reconciler owns the ordered task list for one session.
//
// Create and Delete patch the list from the server's answer. Toggle and Edit
// mark it stale instead, and the single Refresh path replaces it wholesale.
// On any request error the list is left as it was.
//
// A Reconciler is not safe for concurrent use; like UI callbacks, each
// operation runs to completion before the next starts.
type Reconciler struct {
	backend  service.Todos
	notifier Notifier
	tasks    []service.Task
	stale    bool
	inflight int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier sets the notifier fired when a task becomes completed.
func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) { r.notifier = n }
}

// New creates an empty reconciler. Call FetchAll to load the list.
func New(backend service.Todos, opts ...Option) *Reconciler {
	r := &Reconciler{backend: backend}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tasks returns a copy of the list in server order.
func (r *Reconciler) Tasks() []service.Task {
	out := make([]service.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Pending returns incomplete tasks in list order.
func (r *Reconciler) Pending() []service.Task {
	return r.filter(false)
}

// Completed returns completed tasks in list order.
func (r *Reconciler) Completed() []service.Task {
	return r.filter(true)
}

// Find looks a task up by id.
func (r *Reconciler) Find(id string) (service.Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Stale reports whether the list is known to lag the server.
func (r *Reconciler) Stale() bool {
	return r.stale
}

// Busy reports whether an operation is in flight.
func (r *Reconciler) Busy() bool {
	return r.inflight > 0
}

// FetchAll replaces the list with the server's collection.
func (r *Reconciler) FetchAll(ctx context.Context) error {
	defer r.begin()()

	tasks, err := r.backend.ListTodos(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	r.tasks = dedupe(ctx, tasks)
	r.stale = false
	return nil
}

// Refresh re-fetches only if the list is stale.
func (r *Reconciler) Refresh(ctx context.Context) error {
	if !r.stale {
		return nil
	}
	if err := r.FetchAll(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	return nil
}

// Create validates, then sends the task and appends the server's record.
func (r *Reconciler) Create(ctx context.Context, title, description string) (service.Task, error) {
	if err := validate(title, description); err != nil {
		return service.Task{}, err
	}
	defer r.begin()()

	task, err := r.backend.CreateTodo(ctx, title, description, false)
	if err != nil {
		return service.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	r.tasks = append(r.tasks, task)
	return task, nil
}

// Toggle flips a task's completed flag, sending the full record, then refreshes.
// Completing a task fires the notifier; its failure doesn't fail the toggle.
func (r *Reconciler) Toggle(ctx context.Context, id string) (service.Task, error) {
	task, ok := r.Find(id)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	defer r.begin()()

	completed := !task.Completed
	update := service.TaskUpdate{
		Title:       &task.Title,
		Description: &task.Description,
		Completed:   &completed,
	}
	if _, err := r.backend.UpdateTodo(ctx, id, update); err != nil {
		return service.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	task.Completed = completed

	if completed {
		r.notify(ctx, task)
	}

	r.stale = true
	return task, r.Refresh(ctx)
}

// Edit replaces title and description, leaving completed untouched, then refreshes.
func (r *Reconciler) Edit(ctx context.Context, id, title, description string) error {
	if err := validate(title, description); err != nil {
		return err
	}
	defer r.begin()()

	update := service.TaskUpdate{Title: &title, Description: &description}
	if _, err := r.backend.UpdateTodo(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	r.stale = true
	return r.Refresh(ctx)
}

// Delete removes the task on the server, then drops it locally.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	defer r.begin()()

	if err := r.backend.DeleteTodo(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	kept := make([]service.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.tasks = kept
	return nil
}

// begin marks an operation in flight; call the result to end it.
func (r *Reconciler) begin() func() {
	r.inflight++
	return func() { r.inflight-- }
}

func (r *Reconciler) notify(ctx context.Context, task service.Task) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.TaskCompleted(ctx, task); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("task_id", task.ID).Msg("completion notification failed")
	}
}

func (r *Reconciler) filter(completed bool) []service.Task {
	var out []service.Task
	for _, t := range r.tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

func validate(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "Title"}
	}
	if strings.TrimSpace(description) == "" {
		return &ValidationError{Field: "Description"}
	}
	return nil
}

// dedupe keeps the first task for each id.
func dedupe(ctx context.Context, tasks []service.Task) []service.Task {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			zerolog.Ctx(ctx).Debug().Str("task_id", t.ID).Msg("dropping duplicate task")
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
