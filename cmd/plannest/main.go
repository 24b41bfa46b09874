// Package main is the entry point for the plannest CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"plannest/internal/api"
	"plannest/internal/cli"
	"plannest/internal/commands"
	"plannest/internal/config"
	"plannest/internal/service"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		client, err := api.New(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
