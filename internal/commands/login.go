package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/prompt"
	"plannest/internal/reconcile"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd signs in with email and password.
// The session cookie is kept in the config dir by the API client.
type LoginCmd struct {
	email string
	in    io.Reader
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Sign in" }
func (c *LoginCmd) Usage() string      { return "plannest login [--email <email>]" }
func (c *LoginCmd) NeedsService() bool { return true }
func (c *LoginCmd) NeedsConfig() bool  { return true }
func (c *LoginCmd) Route() string      { return guard.PathLogin }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
}

// SetEmail sets the email (for testing).
func (c *LoginCmd) SetEmail(email string) {
	c.email = email
}

// SetInput sets where prompts read from (for testing).
func (c *LoginCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	p := prompt.New(inputOr(c.in), errOut)

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

	res, err := session.Login(ctx, sess, svc, email, password)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	if !res.Success {
		fmt.Fprintf(errOut, "error: %s\n", messageOr(res.Message, "Login failed!"))
		return exitcode.AuthError
	}
	if res.User == nil {
		fmt.Fprintln(errOut, "error: backend error: login response has no user")
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, messageOr(res.Message, "Login successful!"))
	}
	return exitcode.Success
}

func inputOr(in io.Reader) io.Reader {
	if in == nil {
		return os.Stdin
	}
	return in
}

// valueOrPrompt returns v, or asks for it when it is blank. The result is trimmed.
func valueOrPrompt(p *prompt.Prompter, v, label string) (string, error) {
	if v = strings.TrimSpace(v); v != "" {
		return v, nil
	}
	line, err := p.Line(label)
	return strings.TrimSpace(line), err
}

// required rejects an empty credential field before anything is sent.
func required(label, value string) error {
	if value == "" {
		return &reconcile.ValidationError{Field: label}
	}
	return nil
}

func promptFailed(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
