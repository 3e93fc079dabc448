// Package sink persists canonical rows. Append-only: existing (code, date)
// rows are never overwritten, duplicates are skipped via the table's
// primary key, so re-running a window is safe.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// DB is the subset of pgxpool.Pool the sink uses.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Postgres appends canonical rows to one data table.
type Postgres struct {
	db     DB
	table  string
	logger *slog.Logger
}

// NewPostgres creates a sink writing to the given table. The table must
// carry a primary key on (code, date).
func NewPostgres(db DB, table string, logger *slog.Logger) (*Postgres, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid sink table name %q", table)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, table: table, logger: logger}, nil
}

// Append inserts rows with ON CONFLICT (code, date) DO NOTHING and returns
// the number actually inserted. A nil error means every row is durable:
// either just written or already present.
func (s *Postgres) Append(ctx context.Context, rows []model.Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (code, date, open, high, low, close, volume, amt, pct_chg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code, date) DO NOTHING
	`, s.table)

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(sql,
			r.Code, r.Date, r.Open, r.High, r.Low, r.Close, r.Volume, r.Amount, r.PctChg)
	}

	start := time.Now()
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, fmt.Errorf("append rows: %w", err)
		}
		if ct.RowsAffected() > 0 {
			inserted++
		}
	}

	s.logger.Debug("appended rows",
		"table", s.table,
		"count", len(rows),
		"inserted", inserted,
		"conflicts", len(rows)-inserted,
		"duration", time.Since(start),
	)
	return inserted, nil
}
