// Package postgres provides a PostgreSQL execution adapter.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlkit/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/sqlkit/pkg/adapter"

	// Statements for this adapter are rendered by the postgresql dialect.
	_ "github.com/leapstack-labs/sqlkit/pkg/dialects/postgres"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) }, "postgresql", "pg")
}
