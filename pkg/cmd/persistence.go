// Package cmd provides common initialization helpers for command-line
// applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/graphline/graphline/pkg/persistence"
	"github.com/graphline/graphline/pkg/persistence/file"
	"github.com/graphline/graphline/pkg/persistence/postgresql"
)

// NewPersistence selects a backend from the database URL scheme. URLs with
// a postgres scheme get the PostgreSQL backend; everything else is treated
// as a filesystem path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		store, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgresql persistence: %w", err)
		}

		return store, nil
	}

	return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://")), nil
}
