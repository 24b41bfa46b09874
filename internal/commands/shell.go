package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/output"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd keeps one task list open and applies commands to it line by line.
type ShellCmd struct {
	in io.Reader
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return nil }
func (c *ShellCmd) Synopsis() string   { return "Interactive task session" }
func (c *ShellCmd) Usage() string      { return "plannest shell" }
func (c *ShellCmd) NeedsService() bool { return true }
func (c *ShellCmd) NeedsConfig() bool  { return true }
func (c *ShellCmd) Route() string      { return guard.PathHome }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

// SetInput sets where commands are read from (for testing).
func (c *ShellCmd) SetInput(in io.Reader) {
	c.in = in
}

const shellHelp = `commands:
  ls                               list tasks
  add <title> | <description>      add a task
  done <ref>                       toggle completion
  edit <ref> <title> | <desc>      replace title and description
  rm <ref>                         delete a task
  whoami                           show the signed-in user
  quit                             leave the shell
`

var errQuit = errors.New("quit")

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	// Leave as soon as the guard would no longer render the task view.
	lost := false
	unsubscribe := sess.Subscribe(func(s session.Session) {
		if guard.Decide(s, guard.PathHome).Kind != guard.Render {
			lost = true
		}
	})
	defer unsubscribe()

	var opts []reconcile.Option
	if !cfg.Quiet {
		opts = append(opts, reconcile.WithNotifier(reconcile.BellNotifier{W: errOut}))
	}
	rec := reconcile.New(svc, opts...)
	if err := rec.FetchAll(ctx); err != nil {
		return report(errOut, sess, err)
	}

	scanner := bufio.NewScanner(inputOr(c.in))
	for {
		if !cfg.Quiet {
			fmt.Fprint(out, "plannest> ")
		}
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return exitcode.Success
		}

		err := c.exec(ctx, rec, sess, scanner.Text(), out, cfg.Quiet)
		if errors.Is(err, errQuit) {
			return exitcode.Success
		}
		if err != nil {
			report(errOut, sess, err)
		}
		if lost {
			return exitcode.AuthError
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

func (c *ShellCmd) exec(ctx context.Context, rec *reconcile.Reconciler, sess *session.Store, line string, out io.Writer, quiet bool) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "":
		return nil
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprint(out, shellHelp)
		return nil
	case "ls", "list":
		// A refresh only happens if a previous mutation left the list stale.
		if err := rec.Refresh(ctx); err != nil {
			return err
		}
		printTasks(out, rec, quiet)
		return nil
	case "whoami":
		if u := sess.Snapshot().User; u != nil {
			output.FormatUser(out, *u)
		}
		return nil
	case "add":
		title, description := splitFields(rest)
		_, err := rec.Create(ctx, title, description)
		return shellResult(out, quiet, err)
	case "done", "toggle":
		task, err := c.lookup(rec, rest)
		if err != nil {
			return err
		}
		_, err = rec.Toggle(ctx, task.ID)
		return shellResult(out, quiet, err)
	case "edit":
		refArg, fields, _ := strings.Cut(rest, " ")
		task, err := c.lookup(rec, refArg)
		if err != nil {
			return err
		}
		title, description := splitFields(fields)
		return shellResult(out, quiet, rec.Edit(ctx, task.ID, title, description))
	case "rm", "delete":
		task, err := c.lookup(rec, rest)
		if err != nil {
			return err
		}
		return shellResult(out, quiet, rec.Delete(ctx, task.ID))
	default:
		fmt.Fprintf(out, "unknown command: %s (try: help)\n", verb)
		return nil
	}
}

func (c *ShellCmd) lookup(rec *reconcile.Reconciler, arg string) (service.Task, error) {
	ref, err := ParseTaskRef(strings.Fields(arg))
	if err != nil {
		return service.Task{}, err
	}
	return resolveTask(rec, ref)
}

// shellResult prints "ok" for a mutation that went through, including one
// whose follow-up refresh failed. That failure is returned as a warning.
func shellResult(out io.Writer, quiet bool, err error) error {
	if err != nil && !errors.Is(err, reconcile.ErrRefresh) {
		return err
	}
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
	return err
}

// splitFields splits "title | description".
func splitFields(s string) (title, description string) {
	title, description, _ = strings.Cut(s, "|")
	return strings.TrimSpace(title), strings.TrimSpace(description)
}
