package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/sqlkit/pkg/table"
)

// RunResult summarizes a Run.
type RunResult struct {
	ID         string
	Statements int
	Duration   time.Duration
}

// Run renders and executes queries in order, stopping at the first
// failure. Each run gets an id that is attached to every log record.
func Run(ctx context.Context, a Adapter, logger *slog.Logger, queries ...table.Query) (*RunResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	res := &RunResult{ID: uuid.NewString()}
	logger = logger.With("run_id", res.ID, "dialect", a.Dialect())
	start := time.Now()

	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		text, args, err := q.SQL()
		if err != nil {
			return res, fmt.Errorf("rendering statement %d: %w", i+1, err)
		}
		logger.Debug("executing statement", "index", i+1, "sql", text, "args", len(args))
		if err := a.Exec(ctx, text, args...); err != nil {
			logger.Error("statement failed", "index", i+1, "error", err)
			return res, fmt.Errorf("statement %d: %w", i+1, err)
		}
		res.Statements++
	}

	res.Duration = time.Since(start)
	logger.Info("run completed", "statements", res.Statements, "duration", res.Duration)
	return res, nil
}
