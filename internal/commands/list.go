package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/output"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks, pending first" }
func (c *ListCmd) Usage() string      { return "plannest list" }
func (c *ListCmd) NeedsService() bool { return true }
func (c *ListCmd) NeedsConfig() bool  { return true }
func (c *ListCmd) Route() string      { return guard.PathHome }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	rec := reconcile.New(svc)
	if err := rec.FetchAll(ctx); err != nil {
		return report(errOut, sess, err)
	}
	printTasks(out, rec, cfg.Quiet)
	return exitcode.Success
}

func printTasks(out io.Writer, rec *reconcile.Reconciler, quiet bool) {
	if len(rec.Tasks()) == 0 {
		if !quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}
	output.FormatTaskList(out, rec.Pending(), rec.Completed())
}
