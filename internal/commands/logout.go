package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/service"
	"plannest/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd ends the session on the server and forgets the stored cookie.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Sign out" }
func (c *LogoutCmd) Usage() string      { return "plannest logout" }
func (c *LogoutCmd) NeedsService() bool { return true }
func (c *LogoutCmd) NeedsConfig() bool  { return true }
func (c *LogoutCmd) Route() string      { return "" }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	if !cfg.HasCookies() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	res, err := session.Logout(ctx, sess, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	// The server may have expired the session already. Either way the
	// local cookie is of no further use.
	if err := cfg.RemoveCookies(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove cookies: %v\n", err)
		return exitcode.UserError
	}
	if !res.Success {
		sess.ClearUser()
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
