// Package registry reads the series registry table and owns the per-series
// watermark column. The registry rows themselves are externally seeded; the
// engine only ever mutates last_synced_date, and only after the rows behind
// the new watermark are durably persisted.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// DB is the subset of pgxpool.Pool the store uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store reads series and advances watermarks against one registry table.
type Store struct {
	db     DB
	table  string
	logger *slog.Logger
}

// NewStore creates a Store for the given registry table.
func NewStore(db DB, table string, logger *slog.Logger) (*Store, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid registry table name %q", table)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, table: table, logger: logger}, nil
}

// LoadSeries reads every tracked series. Rows with an unknown source tag
// are returned as-is with Provider left empty; the orchestrator records a
// per-series configuration failure for them instead of aborting the run.
func (s *Store) LoadSeries(ctx context.Context) ([]model.Series, error) {
	sql := fmt.Sprintf(
		`SELECT code, source, native_id, last_synced_date FROM %s ORDER BY code`, s.table)

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query registry: %w", err)
	}
	defer rows.Close()

	var series []model.Series
	for rows.Next() {
		var (
			code, source, nativeID string
			lastSynced             *time.Time
		)
		if err := rows.Scan(&code, &source, &nativeID, &lastSynced); err != nil {
			return nil, fmt.Errorf("scan registry row: %w", err)
		}

		sr := model.Series{Code: code, NativeID: nativeID, LastSynced: lastSynced}
		tag, err := model.ParseProviderTag(source)
		if err != nil {
			s.logger.Warn("registry row has unknown source tag",
				"code", code,
				"source", source,
			)
		} else {
			sr.Provider = tag
		}
		series = append(series, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry rows: %w", err)
	}
	return series, nil
}

// Advance sets last_synced_date for one series. A single-row update, atomic
// per series; callers must only invoke it after the corresponding rows were
// durably appended, with d equal to the max date actually written.
func (s *Store) Advance(ctx context.Context, code string, d time.Time) error {
	sql := fmt.Sprintf(
		`UPDATE %s SET last_synced_date = $1 WHERE code = $2`, s.table)

	tag, err := s.db.Exec(ctx, sql, model.Day(d), code)
	if err != nil {
		return fmt.Errorf("advance watermark for %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("advance watermark for %s: series not in registry", code)
	}

	s.logger.Debug("watermark advanced",
		"code", code,
		"last_synced_date", d.Format(model.DateLayout),
	)
	return nil
}
