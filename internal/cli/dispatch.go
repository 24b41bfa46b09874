// Package cli parses the command line and runs commands behind the session guard.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"plannest/internal/commands"
	"plannest/internal/config"
	"plannest/internal/exitcode"
	"plannest/internal/guard"
	"plannest/internal/logging"
	"plannest/internal/service"
	"plannest/internal/session"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Flusher is implemented by services that have state to write out after a
// command, such as request metrics.
type Flusher interface {
	Flush() error
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> the task list, the home view
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := loadConfig(cmd, configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := logging.New(errOut, debug).With().Str("command", cmd.Name()).Logger()
	ctx = logger.WithContext(ctx)

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: backend error: no service configured")
			return exitcode.BackendError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		if f, ok := svc.(Flusher); ok {
			defer func() {
				if err := f.Flush(); err != nil {
					logger.Warn().Err(err).Msg("writing metrics failed")
				}
			}()
		}
	}

	sess := session.NewStore()
	if route := cmd.Route(); route != "" {
		if code, ok := d.admit(ctx, svc, sess, route, cfg, out, errOut); !ok {
			return code
		}
	}

	return cmd.Run(ctx, cfg, svc, sess, positionalArgs, out, errOut)
}

// admit bootstraps the session and applies the guard for route.
// It reports false with an exit code when the command must not run.
func (d *Dispatcher) admit(ctx context.Context, svc service.Service, sess *session.Store, route string, cfg *config.Config, out, errOut io.Writer) (int, bool) {
	session.NewBootstrapper(svc, sess).Run(ctx)

	decision := guard.Decide(sess.Snapshot(), route)
	zerolog.Ctx(ctx).Debug().
		Str("route", route).
		Stringer("decision", decision.Kind).
		Str("target", decision.Target).
		Msg("guard")

	switch decision.Kind {
	case guard.Render:
		return exitcode.Success, true
	case guard.Redirect:
		if decision.Target == guard.PathLogin {
			fmt.Fprintln(errOut, "error: not logged in (run: plannest login)")
			return exitcode.AuthError, false
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success, false
	default:
		fmt.Fprintln(errOut, "error: session not ready")
		return exitcode.BackendError, false
	}
}

// loadConfig reads settings only for commands that use them.
func loadConfig(cmd commands.Command, dir string) (*config.Config, error) {
	if cmd.NeedsConfig() || cmd.NeedsService() {
		return config.New(dir)
	}
	if dir == "" {
		dir = config.DefaultConfigDir()
	}
	return &config.Config{Dir: dir}, nil
}

func flagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
