// Package migrate turns configured tables into goose SQL migrations and
// applies them.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/leapstack-labs/sqlkit/pkg/dialect"
	"github.com/leapstack-labs/sqlkit/pkg/registry"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// Migration is one generated migration file.
type Migration struct {
	Version int64
	Table   string
	Up      []string
	Down    []string
}

// Filename returns the goose file name, e.g. 00001_create_events.sql.
func (m Migration) Filename() string {
	return fmt.Sprintf("%05d_create_%s.sql", m.Version, m.Table)
}

// Render returns the file contents. Each statement is wrapped in a
// StatementBegin/End block so semicolons inside literals are preserved.
func (m Migration) Render() string {
	var b strings.Builder
	b.WriteString("-- +goose Up\n")
	writeStatements(&b, m.Up)
	b.WriteString("\n-- +goose Down\n")
	writeStatements(&b, m.Down)
	return b.String()
}

func writeStatements(b *strings.Builder, stmts []string) {
	for _, s := range stmts {
		b.WriteString("-- +goose StatementBegin\n")
		b.WriteString(s)
		b.WriteString(";\n-- +goose StatementEnd\n")
	}
}

// Generate builds a migration per configured table, numbered in table name
// order. Up creates the table and its indexes, Down drops it.
func Generate(ctx context.Context, r *registry.Registry) ([]Migration, error) {
	models, err := r.BuildAll(ctx)
	if err != nil {
		return nil, err
	}

	migrations := make([]Migration, 0, len(models))
	for i, m := range models {
		t := m.Base()
		mig := Migration{Version: int64(i + 1), Table: t.Name}

		up := append([]table.Query{m.Create(true)}, t.CreateIndexes()...)
		if mig.Up, err = renderAll(up); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		if mig.Down, err = renderAll([]table.Query{m.Drop(true)}); err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		migrations = append(migrations, mig)
	}
	return migrations, nil
}

func renderAll(queries []table.Query) ([]string, error) {
	out := make([]string, len(queries))
	for i, q := range queries {
		text, args, err := q.SQL()
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			return nil, fmt.Errorf("statement %q has bind arguments", text)
		}
		out[i] = text
	}
	return out, nil
}

// Write writes migrations into dir, creating it if needed, and returns the
// written paths.
func Write(dir string, migrations []Migration) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating migration directory: %w", err)
	}
	paths := make([]string, 0, len(migrations))
	for _, m := range migrations {
		path := filepath.Join(dir, m.Filename())
		if err := os.WriteFile(path, []byte(m.Render()), 0o644); err != nil { //nolint:gosec // migrations are not secret
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

var gooseDialects = map[string]database.Dialect{
	"postgresql": database.DialectPostgres,
	"mysql":      database.DialectMySQL,
	"sqlite":     database.DialectSQLite3,
	"redshift":   database.DialectRedshift,
}

// GooseDialect maps a registered dialect name or alias to the goose dialect.
func GooseDialect(name string) (database.Dialect, error) {
	def, err := dialect.Lookup(name)
	if err != nil {
		return "", err
	}
	d, ok := gooseDialects[def.Name()]
	if !ok {
		return "", fmt.Errorf("migrations are not supported for dialect %q", def.Name())
	}
	return d, nil
}

// Up applies every pending migration in dir and returns the applied
// versions.
func Up(ctx context.Context, db *sql.DB, dialectName, dir string, logger *slog.Logger) ([]int64, error) {
	p, err := provider(db, dialectName, dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	versions := make([]int64, 0, len(results))
	for _, r := range results {
		logger.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
		versions = append(versions, r.Source.Version)
	}
	return versions, nil
}

// Version returns the current migration version of db.
func Version(ctx context.Context, db *sql.DB, dialectName, dir string) (int64, error) {
	p, err := provider(db, dialectName, dir)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

func provider(db *sql.DB, dialectName, dir string) (*goose.Provider, error) {
	d, err := GooseDialect(dialectName)
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(d, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("loading migrations from %s: %w", dir, err)
	}
	return p, nil
}
