package commands

import (
	"context"
	"flag"
	"io"

	"plannest/internal/config"
	"plannest/internal/guard"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd flips a task between pending and completed.
// Completing a task rings the terminal bell.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Mark a task completed, or pending again" }
func (c *ToggleCmd) Usage() string      { return "plannest toggle <ref>" }
func (c *ToggleCmd) NeedsService() bool { return true }
func (c *ToggleCmd) NeedsConfig() bool  { return true }
func (c *ToggleCmd) Route() string      { return guard.PathHome }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return report(errOut, sess, err)
	}

	var opts []reconcile.Option
	if !cfg.Quiet {
		opts = append(opts, reconcile.WithNotifier(reconcile.BellNotifier{W: errOut}))
	}
	rec := reconcile.New(svc, opts...)
	if err := rec.FetchAll(ctx); err != nil {
		return report(errOut, sess, err)
	}

	task, err := resolveTask(rec, ref)
	if err != nil {
		return report(errOut, sess, err)
	}
	_, err = rec.Toggle(ctx, task.ID)
	return reportMutation(out, errOut, cfg.Quiet, sess, err)
}
