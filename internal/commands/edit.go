package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (s *optionalString) String() string { return s.value }

func (s *optionalString) Set(v string) error {
	s.value = v
	s.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change a task's title or description" }
func (c *EditCmd) Usage() string      { return "plannest edit [--title <t>] [--description <d>] <ref>" }
func (c *EditCmd) NeedsService() bool { return true }
func (c *EditCmd) NeedsConfig() bool  { return true }
func (c *EditCmd) Route() string      { return guard.PathHome }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optionalString{}
	c.description = optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { _ = c.title.Set(t) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(d string) { _ = c.description.Set(d) }

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return report(errOut, sess, err)
	}
	if !c.title.set && !c.description.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}

	rec := reconcile.New(svc)
	if err := rec.FetchAll(ctx); err != nil {
		return report(errOut, sess, err)
	}
	task, err := resolveTask(rec, ref)
	if err != nil {
		return report(errOut, sess, err)
	}

	title, description := task.Title, task.Description
	if c.title.set {
		title = c.title.value
	}
	if c.description.set {
		description = c.description.value
	}
	return reportMutation(out, errOut, cfg.Quiet, sess, rec.Edit(ctx, task.ID, title, description))
}
