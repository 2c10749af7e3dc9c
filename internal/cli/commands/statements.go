package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlkit/pkg/dialects/athena"
	"github.com/leapstack-labs/sqlkit/pkg/dialects/mysql"
	"github.com/leapstack-labs/sqlkit/pkg/dialects/oracle"
	"github.com/leapstack-labs/sqlkit/pkg/dialects/postgres"
	"github.com/leapstack-labs/sqlkit/pkg/dialects/redshift"
	"github.com/leapstack-labs/sqlkit/pkg/dialects/sqlite"
	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// StatementInput carries the --arg values and call options of one
// statement invocation.
type StatementInput struct {
	Args map[string]any
	Opts []table.CallOption
}

// decode decodes the arguments into dst using the same weak typing as
// dialect method configuration.
func (in StatementInput) decode(dst any) error {
	return table.DecodeOptions(in.Args, dst)
}

// Statement is a named SQL statement the CLI can render or execute for a
// table.
type Statement struct {
	Name string
	// Dialect restricts the statement to one dialect; empty means all.
	Dialect string
	Short   string
	Build   func(m table.Model, in StatementInput) ([]table.Query, error)
}

// UnknownStatementError is returned for statements that do not exist or
// do not apply to the table's dialect.
type UnknownStatementError struct {
	Statement string
	Table     string
	Dialect   string
	Available []string
}

func (e *UnknownStatementError) Error() string {
	return fmt.Sprintf("unknown statement %q for %s table %q\n\nAvailable statements: %s",
		e.Statement, e.Dialect, e.Table, strings.Join(e.Available, ", "))
}

var statements = map[string]*Statement{}

func registerStatement(s *Statement) {
	statements[s.Dialect+"/"+s.Name] = s
}

// StatementsFor returns the statements available for m, sorted by name.
func StatementsFor(m table.Model) []*Statement {
	d := m.Base().Dialect.Name()
	var out []*Statement
	for _, s := range statements {
		if s.Dialect == "" || s.Dialect == d {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildStatement builds the named statement for m.
func BuildStatement(m table.Model, name string, in StatementInput) ([]table.Query, error) {
	if in.Args == nil {
		in.Args = map[string]any{}
	}
	base := m.Base()
	s, ok := statements[base.Dialect.Name()+"/"+name]
	if !ok {
		s, ok = statements["/"+name]
	}
	if !ok {
		avail := StatementsFor(m)
		names := make([]string, len(avail))
		for i, a := range avail {
			names[i] = a.Name
		}
		return nil, &UnknownStatementError{Statement: name, Table: base.Name, Dialect: base.Dialect.Name(), Available: names}
	}
	return s.Build(m, in)
}

// on adapts a builder for a concrete dialect table type.
func on[T table.Model](build func(T, StatementInput) ([]table.Query, error)) func(table.Model, StatementInput) ([]table.Query, error) {
	return func(m table.Model, in StatementInput) ([]table.Query, error) {
		t, ok := m.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("table %q is a %T, not %T", m.Base().Name, m, zero)
		}
		return build(t, in)
	}
}

func one(q table.Query) ([]table.Query, error) {
	return []table.Query{q}, nil
}

func oneErr(q table.Query, err error) ([]table.Query, error) {
	if err != nil {
		return nil, err
	}
	return []table.Query{q}, nil
}

func init() {
	registerStatement(&Statement{
		Name:  "create",
		Short: "CREATE TABLE (if_not_exists, default true)",
		Build: func(m table.Model, in StatementInput) ([]table.Query, error) {
			args := struct {
				IfNotExists bool `mapstructure:"if_not_exists"`
			}{IfNotExists: true}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(m.Create(args.IfNotExists))
		},
	})
	registerStatement(&Statement{
		Name:  "drop",
		Short: "DROP TABLE (if_exists, default true)",
		Build: func(m table.Model, in StatementInput) ([]table.Query, error) {
			args := struct {
				IfExists bool `mapstructure:"if_exists"`
			}{IfExists: true}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(m.Drop(args.IfExists))
		},
	})
	registerStatement(&Statement{
		Name:  "truncate",
		Short: "TRUNCATE TABLE",
		Build: func(m table.Model, _ StatementInput) ([]table.Query, error) {
			return one(m.Truncate())
		},
	})
	registerStatement(&Statement{
		Name:  "indexes",
		Short: "CREATE INDEX for every configured index",
		Build: func(m table.Model, _ StatementInput) ([]table.Query, error) {
			return m.Base().CreateIndexes(), nil
		},
	})
	registerStatement(&Statement{
		Name:  "select",
		Short: "SELECT (columns, order_by, limit)",
		Build: func(m table.Model, in StatementInput) ([]table.Query, error) {
			var args struct {
				Columns []string `mapstructure:"columns"`
				OrderBy []string `mapstructure:"order_by"`
				Limit   int      `mapstructure:"limit"`
			}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			q := m.Base().Select(args.Columns...)
			if len(args.OrderBy) > 0 {
				q = q.OrderBy(args.OrderBy...)
			}
			if args.Limit > 0 {
				q = q.Limit(args.Limit)
			}
			return one(q)
		},
	})
	registerStatement(&Statement{
		Name:  "insert",
		Short: "INSERT one row from the arguments",
		Build: func(m table.Model, in StatementInput) ([]table.Query, error) {
			if len(in.Args) == 0 {
				return nil, fmt.Errorf("insert: no column values given")
			}
			return one(m.Base().Insert(in.Args))
		},
	})

	registerPostgres()
	registerRedshift()
	registerAthena()
	registerMySQL()
	registerOracle()
	registerSQLite()
}

func registerPostgres() {
	registerStatement(&Statement{
		Name: "copy_from_csv", Dialect: postgres.Name,
		Short: "COPY ... FROM a CSV file",
		Build: on(func(t *postgres.Table, in StatementInput) ([]table.Query, error) {
			var args postgres.CopyOptions
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.CopyFromCSV(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "copy_to_csv", Dialect: postgres.Name,
		Short: "COPY ... TO a CSV file",
		Build: on(func(t *postgres.Table, in StatementInput) ([]table.Query, error) {
			var args postgres.CopyOptions
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.CopyToCSV(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "analyze", Dialect: postgres.Name,
		Short: "ANALYZE",
		Build: on(func(t *postgres.Table, _ StatementInput) ([]table.Query, error) {
			return one(t.Analyze())
		}),
	})
	registerStatement(&Statement{
		Name: "vacuum", Dialect: postgres.Name,
		Short: "VACUUM (full)",
		Build: on(func(t *postgres.Table, in StatementInput) ([]table.Query, error) {
			var args struct {
				Full bool `mapstructure:"full"`
			}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(t.Vacuum(args.Full))
		}),
	})
}

func registerRedshift() {
	registerStatement(&Statement{
		Name: "copy_from_s3", Dialect: redshift.Name,
		Short: "COPY ... FROM S3",
		Build: on(func(t *redshift.Table, in StatementInput) ([]table.Query, error) {
			var args redshift.S3Options
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.CopyFromS3(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "unload_to_s3", Dialect: redshift.Name,
		Short: "UNLOAD ... TO S3",
		Build: on(func(t *redshift.Table, in StatementInput) ([]table.Query, error) {
			var args redshift.S3Options
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.UnloadToS3(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "analyze_compression", Dialect: redshift.Name,
		Short: "ANALYZE COMPRESSION",
		Build: on(func(t *redshift.Table, _ StatementInput) ([]table.Query, error) {
			return one(t.AnalyzeCompression())
		}),
	})
	registerStatement(&Statement{
		Name: "vacuum_reindex", Dialect: redshift.Name,
		Short: "VACUUM REINDEX",
		Build: on(func(t *redshift.Table, _ StatementInput) ([]table.Query, error) {
			return one(t.VacuumReindex())
		}),
	})
	registerStatement(&Statement{
		Name: "deep_copy", Dialect: redshift.Name,
		Short: "CREATE TABLE new_name AS SELECT *",
		Build: on(func(t *redshift.Table, in StatementInput) ([]table.Query, error) {
			var args struct {
				NewName string `mapstructure:"new_name"`
			}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(t.DeepCopy(args.NewName))
		}),
	})
}

func registerAthena() {
	registerStatement(&Statement{
		Name: "create_as_select", Dialect: athena.Name,
		Short: "CREATE TABLE ... WITH (...) AS SELECT",
		Build: on(func(t *athena.Table, in StatementInput) ([]table.Query, error) {
			var args athena.CTASOptions
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.CreateAsSelect(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "msck_repair", Dialect: athena.Name,
		Short: "MSCK REPAIR TABLE",
		Build: on(func(t *athena.Table, in StatementInput) ([]table.Query, error) {
			var args athena.RepairOptions
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.MsckRepair(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "show_partitions", Dialect: athena.Name,
		Short: "SHOW PARTITIONS",
		Build: on(func(t *athena.Table, _ StatementInput) ([]table.Query, error) {
			return one(t.ShowPartitions())
		}),
	})
}

func registerMySQL() {
	registerStatement(&Statement{
		Name: "load_data_infile", Dialect: mysql.Name,
		Short: "LOAD DATA INFILE",
		Build: on(func(t *mysql.Table, in StatementInput) ([]table.Query, error) {
			var args mysql.LoadDataOptions
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return oneErr(t.LoadDataInfile(args, in.Opts...))
		}),
	})
	registerStatement(&Statement{
		Name: "show_create", Dialect: mysql.Name,
		Short: "SHOW CREATE TABLE",
		Build: on(func(t *mysql.Table, _ StatementInput) ([]table.Query, error) {
			return one(t.ShowCreate())
		}),
	})
}

func registerOracle() {
	registerStatement(&Statement{
		Name: "analyze_table", Dialect: oracle.Name,
		Short: "ANALYZE TABLE (estimate_percent, method)",
		Build: on(func(t *oracle.Table, in StatementInput) ([]table.Query, error) {
			var args struct {
				EstimatePercent int    `mapstructure:"estimate_percent"`
				Method          string `mapstructure:"method"`
			}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(t.AnalyzeTable(oracle.AnalyzeOptions{EstimatePercent: args.EstimatePercent, Method: args.Method}))
		}),
	})
	registerStatement(&Statement{
		Name: "create_sequence", Dialect: oracle.Name,
		Short: "CREATE SEQUENCE (name, start_with, increment_by)",
		Build: on(func(t *oracle.Table, in StatementInput) ([]table.Query, error) {
			args := struct {
				Name        string `mapstructure:"name"`
				StartWith   int    `mapstructure:"start_with"`
				IncrementBy int    `mapstructure:"increment_by"`
			}{Name: t.Name + "_seq", StartWith: 1, IncrementBy: 1}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(t.CreateSequence(args.Name, args.StartWith, args.IncrementBy))
		}),
	})
	registerStatement(&Statement{
		Name: "truncate_storage", Dialect: oracle.Name,
		Short: "TRUNCATE TABLE ... DROP|REUSE STORAGE (reuse)",
		Build: on(func(t *oracle.Table, in StatementInput) ([]table.Query, error) {
			var args struct {
				Reuse bool `mapstructure:"reuse"`
			}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(t.TruncateStorage(args.Reuse))
		}),
	})
}

func registerSQLite() {
	registerStatement(&Statement{
		Name: "pragma", Dialect: sqlite.Name,
		Short: "PRAGMA name [= value]",
		Build: on(func(t *sqlite.Table, in StatementInput) ([]table.Query, error) {
			var args struct {
				Name  string `mapstructure:"name"`
				Value string `mapstructure:"value"`
			}
			if err := in.decode(&args); err != nil {
				return nil, err
			}
			return one(t.Pragma(args.Name, args.Value))
		}),
	})
}
