// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"plannest/internal/config"
	"plannest/internal/service"
	"plannest/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command talks to the API.
	NeedsService() bool

	// NeedsConfig returns false if the command runs without reading the
	// config file or environment, so a broken setting can't stop it.
	NeedsConfig() bool

	// Route returns the guarded view the command belongs to (see package guard),
	// or "" if it runs without a session check.
	Route() string

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided. Only Dir is set if NeedsConfig() returns false.
	// svc is nil if NeedsService() returns false.
	// sess has been bootstrapped and let through the guard when Route() is set.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *session.Store, args []string, out, errOut io.Writer) int
}
