package main

import (
	"context"
	"log/slog"

	cli "github.com/urfave/cli/v3"

	"github.com/graphline/graphline/pkg/cmd"
	"github.com/graphline/graphline/pkg/log"
	"github.com/graphline/graphline/pkg/persistence"
	"github.com/graphline/graphline/pkg/registry"
)

type app struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
}

// newApp initializes logging, persistence and the node registry from the
// root command's flags. Callers must invoke close when done.
func newApp(ctx context.Context, command *cli.Command, module string) (*app, error) {
	log.Setup(command.String("log-level"))

	logger := log.WithModule(module)

	store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, err
	}

	clients := cmd.NewClients(logger, store)

	return &app{
		logger:      logger,
		persistence: store,
		registry:    cmd.NewRegistry(logger, clients, command.String("model")),
	}, nil
}

func (a *app) close(ctx context.Context) {
	err := a.persistence.Close(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to close persistence", "error", err)
	}
}
