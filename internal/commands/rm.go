package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/prompt"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	force bool
	in    io.Reader
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "plannest rm [--force] <ref>" }
func (c *RmCmd) NeedsService() bool { return true }
func (c *RmCmd) NeedsConfig() bool  { return true }
func (c *RmCmd) Route() string      { return guard.PathHome }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

// SetForce skips the confirmation prompt (for testing).
func (c *RmCmd) SetForce(force bool) {
	c.force = force
}

// SetInput sets where the confirmation is read from (for testing).
func (c *RmCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return report(errOut, sess, err)
	}

	rec := reconcile.New(svc)
	if err := rec.FetchAll(ctx); err != nil {
		return report(errOut, sess, err)
	}
	task, err := resolveTask(rec, ref)
	if err != nil {
		return report(errOut, sess, err)
	}

	if !c.force {
		in := c.in
		if in == nil {
			in = os.Stdin
		}
		ok, err := prompt.New(in, errOut).Confirm("Are you sure to delete this task?")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if !ok {
			if !cfg.Quiet {
				fmt.Fprintln(out, "cancelled")
			}
			return exitcode.Success
		}
	}

	return reportMutation(out, errOut, cfg.Quiet, sess, rec.Delete(ctx, task.ID))
}
