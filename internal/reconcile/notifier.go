package reconcile

import (
	"context"
	"io"

	"plannest/internal/service"
)

// Notifier is told when a task moves to completed. Best effort only.
type Notifier interface {
	TaskCompleted(ctx context.Context, task service.Task) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, task service.Task) error

// TaskCompleted implements Notifier.
func (f NotifierFunc) TaskCompleted(ctx context.Context, task service.Task) error {
	return f(ctx, task)
}

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	W io.Writer
}

// TaskCompleted implements Notifier.
func (b BellNotifier) TaskCompleted(ctx context.Context, task service.Task) error {
	_, err := io.WriteString(b.W, "\a")
	return err
}
