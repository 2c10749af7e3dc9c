// Package redshift provides an Amazon Redshift execution adapter built on
// the lib/pq driver.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlkit/pkg/adapters/redshift"
package redshift

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"entgo.io/ent/dialect"
	"github.com/lib/pq"

	"github.com/leapstack-labs/sqlkit/pkg/adapter"
	rsdialect "github.com/leapstack-labs/sqlkit/pkg/dialects/redshift"
)

const defaultPort = 5439

func init() {
	adapter.Register("redshift", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}

// Adapter implements the adapter.Adapter interface for Redshift.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Redshift adapter. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Dialect returns the SQL dialect for this adapter.
func (a *Adapter) Dialect() string {
	return rsdialect.Name
}

// Connect establishes a connection to the cluster.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	connector, err := pq.NewConnector(buildRedshiftDSN(cfg))
	if err != nil {
		return fmt.Errorf("invalid redshift configuration: %w", err)
	}

	a.Logger.Debug("connecting to redshift", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping redshift: %w", err)
	}

	a.Conn = db
	a.Cfg = cfg
	return nil
}

// buildRedshiftDSN constructs a key=value connection string. Clusters
// require TLS, so sslmode defaults to require. Other options are passed
// through in key order.
func buildRedshiftDSN(cfg adapter.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	parts := []string{
		"host=" + quoteValue(cfg.Host),
		fmt.Sprintf("port=%d", port),
		"dbname=" + quoteValue(cfg.Database),
	}
	if cfg.Username != "" {
		parts = append(parts, "user="+quoteValue(cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+quoteValue(cfg.Password))
	}

	opts := map[string]string{"sslmode": "require"}
	for k, v := range cfg.Options {
		opts[k] = v
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quoteValue(opts[k]))
	}

	return strings.Join(parts, " ")
}

// quoteValue quotes v for a key=value DSN when it is empty or contains
// spaces, quotes or backslashes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// GetTableMetadata retrieves metadata for a table. Unqualified names are
// looked up in the configured schema, or public.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	schema := a.Cfg.Schema
	if schema == "" {
		schema = "public"
	}
	return a.GetTableMetadataCommon(ctx, table, schema, dialect.Postgres)
}
