package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/commerceops/flowline/pkg/persistence"
	"github.com/commerceops/flowline/pkg/persistence/file"
	"github.com/commerceops/flowline/pkg/persistence/postgresql"
)

// NewPersistence builds the persistence layer from a database URL. Postgres
// URLs get the SQL implementation; anything else is treated as a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL, stepTables string) (persistence.Persistence, error) {
	tables := parseStepTables(stepTables)

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL, tables)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgresql persistence: %w", err)
		}

		return p, nil
	}

	if len(tables) == 0 {
		tables = postgresql.DefaultStepTables
	}

	return file.NewPersistence(databaseURL, logger, tables), nil
}

func parseStepTables(stepTables string) []string {
	tables := make([]string, 0)

	for _, table := range strings.Split(stepTables, ",") {
		table = strings.TrimSpace(table)
		if table != "" {
			tables = append(tables, table)
		}
	}

	return tables
}
