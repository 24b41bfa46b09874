package commands

import (
	"context"
	"errors"
	"testing"

	"plannest/internal/reconcile"
	"plannest/internal/testutil"
)

func TestParseTaskRef(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    TaskRef
		wantErr string
	}{
		{name: "number", args: []string{"3"}, want: TaskRef{Num: 3}},
		{name: "number with extra args", args: []string{"12", "x"}, want: TaskRef{Num: 12}},
		{name: "id", args: []string{"64f1c2ab9e"}, want: TaskRef{ID: "64f1c2ab9e"}},
		{name: "mixed is an id", args: []string{"a1"}, want: TaskRef{ID: "a1"}},
		{name: "zero", args: []string{"0"}, wantErr: "task number out of range: 0"},
		{name: "overflow", args: []string{"99999999999999999999"}, wantErr: "invalid task reference: 99999999999999999999"},
		{name: "none", args: nil, wantErr: "task reference required"},
		{name: "empty", args: []string{""}, wantErr: "task reference required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTaskRef(tt.args)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseTaskRef_Sentinels(t *testing.T) {
	tests := []struct {
		args []string
		want error
	}{
		{nil, ErrTaskRefRequired},
		{[]string{"0"}, ErrTaskOutOfRange},
		{[]string{"99999999999999999999"}, ErrInvalidTaskRef},
	}
	for _, tt := range tests {
		_, err := ParseTaskRef(tt.args)
		if !errors.Is(err, tt.want) {
			t.Errorf("ParseTaskRef(%q): expected %v, got %v", tt.args, tt.want, err)
		}
		if !isRefError(err) {
			t.Errorf("ParseTaskRef(%q): %v should be classified as a reference error", tt.args, err)
		}
	}
}

func TestResolveTask(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SignIn(svc.AddUser("Ada", "ada@example.com", "secret"))
	svc.AddTask("done1", "Call mom", "Sunday", true)
	svc.AddTask("open1", "Buy milk", "2%", false)

	rec := reconcile.New(svc)
	if err := rec.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	task, err := resolveTask(rec, TaskRef{Num: 2})
	if err != nil || task.ID != "done1" {
		t.Errorf("expected completed task second, got %+v, %v", task, err)
	}

	_, err = resolveTask(rec, TaskRef{Num: 3})
	if !errors.Is(err, ErrTaskOutOfRange) || err.Error() != "task number out of range: 3" {
		t.Errorf("expected out of range, got %v", err)
	}

	_, err = resolveTask(rec, TaskRef{ID: "nope"})
	if !errors.Is(err, reconcile.ErrTaskNotFound) || isRefError(err) {
		t.Errorf("expected task not found, got %v", err)
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := map[string]bool{
		"":    false,
		"0":   true,
		"123": true,
		"12a": false,
		"١٢":  false, // non-ASCII digits
	}
	for in, want := range tests {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTaskRefString(t *testing.T) {
	if s := (TaskRef{Num: 4}).String(); s != "4" {
		t.Errorf("expected 4, got %q", s)
	}
	if s := (TaskRef{ID: "abc"}).String(); s != "abc" {
		t.Errorf("expected abc, got %q", s)
	}
}
