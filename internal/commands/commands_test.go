package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"plannest/internal/commands"
	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/service"
	"plannest/internal/session"
	"plannest/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
// The session store reflects whether svc has a signed-in user.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	sess := session.NewStore()
	var s service.Service
	if svc != nil {
		s = svc
		session.NewBootstrapper(svc, sess).Run(context.Background())
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, s, sess, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// newSignedIn returns a FakeService with Ada signed in.
func newSignedIn() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.SignIn(svc.AddUser("Ada", "ada@example.com", "secret"))
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "plannest 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "plannest add", "alias: done", "Environment:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for config command
func TestConfigCommand(t *testing.T) {
	cmd := &commands.ConfigCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: "/tmp/plannest", APIURL: "https://example.com", Timeout: 0}
	code := cmd.Run(context.Background(), cfg, nil, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "# /tmp/plannest\napi_url: https://example.com\ntimeout: 0s\n"
	if outBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, outBuf.String())
	}
}

// Tests for list command
func TestListCommand_PendingThenCompleted(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Call mom", "Sunday", true)
	svc.AddTask("b", "Buy milk", "2%", false)
	svc.AddTask("c", "Write report", "Q3 numbers", false)

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_mixed", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	svc := newSignedIn()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := newSignedIn()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestListCommand_DuplicateIDsShownOnce(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)
	svc.AddTask("a", "Buy milk again", "", false)

	cmd := &commands.ListCmd{}
	stdout, _, _ := runCommand(t, cmd, svc, nil, false)

	if strings.Contains(stdout, "again") {
		t.Errorf("duplicate id should be dropped, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := newSignedIn()
	svc.ListTodosErr = errors.New("connection reset")

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: failed to fetch tasks: connection reset\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_SessionExpired(t *testing.T) {
	svc := newSignedIn()
	svc.ListTodosErr = service.ErrUnauthenticated

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: plannest login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := newSignedIn()

	cmd := &commands.AddCmd{}
	cmd.SetDescription("2%")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	tasks := svc.ServerTasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy milk" || tasks[0].Description != "2%" || tasks[0].Completed {
		t.Errorf("unexpected task %+v", tasks[0])
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := newSignedIn()

	cmd := &commands.AddCmd{}
	cmd.SetDescription("2%")
	stdout, _, code := runCommand(t, cmd, svc, []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_Validation(t *testing.T) {
	tests := []struct {
		name        string
		title       []string
		description string
		want        string
	}{
		{"no title", nil, "2%", "error: Title is required\n"},
		{"blank title", []string{"  "}, "2%", "error: Title is required\n"},
		{"no description", []string{"Buy milk"}, "", "error: Description is required\n"},
		{"blank description", []string{"Buy milk"}, "   ", "error: Description is required\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSignedIn()
			cmd := &commands.AddCmd{}
			cmd.SetDescription(tt.description)

			_, stderr, code := runCommand(t, cmd, svc, tt.title, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if svc.Calls("CreateTodo") != 0 {
				t.Error("validation failure must not call the API")
			}
		})
	}
}

// Tests for toggle command
func TestToggleCommand_Complete(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)

	cmd := &commands.ToggleCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if stderr != "\a" {
		t.Errorf("expected a bell on completion, got %q", stderr)
	}
	if !svc.ServerTasks()[0].Completed {
		t.Error("task should be completed")
	}

	updates := svc.Updates()
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	u := updates[0].Update
	if u.Title == nil || *u.Title != "Buy milk" || u.Description == nil || *u.Description != "2%" || u.Completed == nil || !*u.Completed {
		t.Errorf("toggle should send the full record, got %+v", u)
	}
}

func TestToggleCommand_ReopenHasNoBell(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", true)

	cmd := &commands.ToggleCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"a"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no bell when reopening, got %q", stderr)
	}
	if svc.ServerTasks()[0].Completed {
		t.Error("task should be pending again")
	}
}

func TestToggleCommand_NumbersFollowDisplayOrder(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("done1", "Call mom", "Sunday", true)
	svc.AddTask("open1", "Buy milk", "2%", false)

	// 1 is the pending task even though it comes second from the server.
	cmd := &commands.ToggleCmd{}
	_, _, code := runCommand(t, cmd, svc, []string{"1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := svc.Updates()[0].ID; got != "open1" {
		t.Errorf("expected open1 to be toggled, got %s", got)
	}
}

func TestToggleCommand_RefErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing", nil, "error: task reference required\n"},
		{"zero", []string{"0"}, "error: task number out of range: 0\n"},
		{"too large", []string{"5"}, "error: task number out of range: 5\n"},
		{"unknown id", []string{"zzz"}, "error: task not found: zzz\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSignedIn()
			svc.AddTask("a", "Buy milk", "2%", false)

			cmd := &commands.ToggleCmd{}
			_, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if svc.Calls("UpdateTodo") != 0 {
				t.Error("no update should be sent")
			}
		})
	}
}

func TestToggleCommand_RefreshFailureIsWarning(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)

	cmd := &commands.ToggleCmd{}
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Quiet: true}
	sess := session.NewStore()
	session.NewBootstrapper(svc, sess).Run(context.Background())

	// Let the initial fetch through, then fail the follow-up one.
	failing := &failAfter{FakeService: svc, lists: 1, err: errors.New("timeout")}
	code := cmd.Run(context.Background(), cfg, failing, sess, []string{"1"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(errBuf.String(), "warning: failed to refresh tasks") {
		t.Errorf("expected refresh warning, got %q", errBuf.String())
	}
	if !svc.ServerTasks()[0].Completed {
		t.Error("the toggle itself should have been applied")
	}
}

// failAfter lets the first lists ListTodos calls through, then fails.
type failAfter struct {
	*testutil.FakeService
	lists int
	err   error
}

func (f *failAfter) ListTodos(ctx context.Context) ([]service.Task, error) {
	if f.lists == 0 {
		return nil, f.err
	}
	f.lists--
	return f.FakeService.ListTodos(ctx)
}

// Tests for edit command
func TestEditCommand_TitleOnly(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", true)

	cmd := &commands.EditCmd{}
	cmd.SetTitle("Buy oat milk")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	task := svc.ServerTasks()[0]
	if task.Title != "Buy oat milk" || task.Description != "2%" || !task.Completed {
		t.Errorf("unexpected task after edit %+v", task)
	}
	if u := svc.Updates()[0].Update; u.Completed != nil {
		t.Error("edit must not send the completion flag")
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "nothing to change") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_BlankTitle(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)

	cmd := &commands.EditCmd{}
	cmd.SetTitle("  ")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Title is required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls("UpdateTodo") != 0 {
		t.Error("validation failure must not call the API")
	}
}

// Tests for rm command
func TestRmCommand_Force(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)
	svc.AddTask("b", "Call mom", "Sunday", false)

	cmd := &commands.RmCmd{}
	cmd.SetForce(true)
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	tasks := svc.ServerTasks()
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("expected only task a to remain, got %+v", tasks)
	}
}

func TestRmCommand_Confirm(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("y\n"))
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "Are you sure to delete this task? [y/N]: " {
		t.Errorf("expected confirmation prompt, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if len(svc.ServerTasks()) != 0 {
		t.Error("task should be deleted")
	}
}

func TestRmCommand_Declined(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("n\n"))
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "cancelled\n" {
		t.Errorf("expected 'cancelled', got %q", stdout)
	}
	if svc.Calls("DeleteTodo") != 0 {
		t.Error("declined delete must not call the API")
	}
}

func TestRmCommand_ServerError(t *testing.T) {
	svc := newSignedIn()
	svc.AddTask("a", "Buy milk", "2%", false)
	svc.DeleteTodoErr = errors.New("internal error")

	cmd := &commands.RmCmd{}
	cmd.SetForce(true)
	_, stderr, code := runCommand(t, cmd, svc, []string{"a"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: failed to delete task: internal error\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.ServerTasks()) != 1 {
		t.Error("task should still exist")
	}
}

// Tests for whoami command
func TestWhoamiCommand(t *testing.T) {
	svc := newSignedIn()

	cmd := &commands.WhoamiCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "Ada <ada@example.com>\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestWhoamiCommand_NoSession(t *testing.T) {
	cmd := &commands.WhoamiCmd{}
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: plannest login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
