package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/prompt"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd creates an account. It doesn't sign in.
type RegisterCmd struct {
	name  string
	email string
	in    io.Reader
}

func (c *RegisterCmd) Name() string       { return "register" }
func (c *RegisterCmd) Aliases() []string  { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string   { return "Create an account" }
func (c *RegisterCmd) Usage() string      { return "plannest register [--name <name>] [--email <email>]" }
func (c *RegisterCmd) NeedsService() bool { return true }
func (c *RegisterCmd) NeedsConfig() bool  { return true }
func (c *RegisterCmd) Route() string      { return guard.PathRegister }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.name, "n", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
}

// SetName sets the account name (for testing).
func (c *RegisterCmd) SetName(name string) {
	c.name = name
}

// SetEmail sets the email (for testing).
func (c *RegisterCmd) SetEmail(email string) {
	c.email = email
}

// SetInput sets where prompts read from (for testing).
func (c *RegisterCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	p := prompt.New(inputOr(c.in), errOut)

	name, err := valueOrPrompt(p, c.name, "Name")
	if err != nil {
		return promptFailed(errOut, err)
	}
	if err := required("Name", name); err != nil {
		return promptFailed(errOut, err)
	}
	email, err := valueOrPrompt(p, c.email, "Email")
	if err != nil {
		return promptFailed(errOut, err)
	}
	if err := required("Email", email); err != nil {
		return promptFailed(errOut, err)
	}
	password, err := p.Password("Password")
	if err != nil {
		return promptFailed(errOut, err)
	}
	if err := required("Password", password); err != nil {
		return promptFailed(errOut, err)
	}

	res, err := svc.Register(ctx, name, email, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", messageOr(res.Message, "Registration failed!"))
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, messageOr(res.Message, "Registration successful!"))
		fmt.Fprintln(out, "run: plannest login")
	}
	return exitcode.Success
}
