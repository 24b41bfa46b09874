package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"plannest/internal/config"
	"plannest/internal/guard"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return "Add a task" }
func (c *AddCmd) Usage() string      { return "plannest add -d <description> <title...>" }
func (c *AddCmd) NeedsService() bool { return true }
func (c *AddCmd) NeedsConfig() bool  { return true }
func (c *AddCmd) Route() string      { return guard.PathHome }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(d string) {
	c.description = d
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")

	rec := reconcile.New(svc)
	_, err := rec.Create(ctx, title, c.description)
	return reportMutation(out, errOut, cfg.Quiet, sess, err)
}
