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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "plannest help" }
func (c *HelpCmd) NeedsService() bool { return false }
func (c *HelpCmd) NeedsConfig() bool  { return false }
func (c *HelpCmd) Route() string      { return "" }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprint(out, DefaultRegistry.Summary())
	fmt.Fprint(out, commonFlagsText)

	if env, err := config.EnvHelp(); err == nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, env)
		fmt.Fprintln(out)
	}
	return exitcode.Success
}

const commonFlagsText = `
Run without a command to list tasks.
Task references are the numbers shown by 'plannest list', or a task id.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
