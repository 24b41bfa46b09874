package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"plannest/internal/reconcile"
	"plannest/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position in display order, 0 if ID is set
	ID  string // literal task id
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrInvalidTaskRef indicates a reference that can't be parsed.
	ErrInvalidTaskRef = errors.New("invalid task reference")

	// ErrTaskOutOfRange indicates a task number outside the displayed list.
	ErrTaskOutOfRange = errors.New("task number out of range")
)

// ParseTaskRef parses the task reference in args[0].
//
// An all-digit argument is a position in the list as printed by "list":
// pending tasks first, then completed ones. Anything else is taken as a
// task id.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	ref := args[0]
	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil {
			return TaskRef{}, fmt.Errorf("%w: %s", ErrInvalidTaskRef, ref)
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("%w: %d", ErrTaskOutOfRange, num)
		}
		return TaskRef{Num: num}, nil
	}
	return TaskRef{ID: ref}, nil
}

func (r TaskRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// displayOrder returns the tasks in the order "list" numbers them.
func displayOrder(rec *reconcile.Reconciler) []service.Task {
	return append(rec.Pending(), rec.Completed()...)
}

// resolveTask finds the task ref points at in the reconciler's current list.
func resolveTask(rec *reconcile.Reconciler, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		task, ok := rec.Find(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("%w: %s", reconcile.ErrTaskNotFound, ref.ID)
		}
		return task, nil
	}

	tasks := displayOrder(rec)
	if ref.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %d", ErrTaskOutOfRange, ref.Num)
	}
	return tasks[ref.Num-1], nil
}
