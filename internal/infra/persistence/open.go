// Package persistence selects a concrete domain store implementation.
package persistence

import (
	"context"
	"fmt"

	"github.com/zaocat/Purrfit/internal/infra/persistence/memory"
	"github.com/zaocat/Purrfit/internal/infra/persistence/postgres"
	"github.com/zaocat/Purrfit/internal/infra/persistence/sqlite"
	"github.com/zaocat/Purrfit/pkg/domain"
)

// Driver identifies a concrete persistent storage implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Open constructs the store named by driver. An empty driver defaults to
// sqlite. Path applies to sqlite, dsn to postgres.
func Open(ctx context.Context, driver Driver, path, dsn string) (domain.Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverMemory:
		return memory.NewStore(), nil
	case DriverSQLite:
		return sqlite.NewStore(path)
	case DriverPostgres:
		return postgres.NewStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
