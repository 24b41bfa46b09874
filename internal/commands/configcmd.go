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
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective configuration.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Print effective configuration" }
func (c *ConfigCmd) Usage() string      { return "plannest config" }
func (c *ConfigCmd) NeedsService() bool { return false }
func (c *ConfigCmd) NeedsConfig() bool  { return true }
func (c *ConfigCmd) Route() string      { return "" }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int {
	data, err := cfg.YAML()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(out, "# %s\n", cfg.Dir)
	out.Write(data)
	return exitcode.Success
}
