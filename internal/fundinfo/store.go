package fundinfo

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the store uses.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store persists filings in one raw table keyed by filing id.
type Store struct {
	db     DB
	table  string
	logger *slog.Logger
}

// NewStore creates a filings store for the given table.
func NewStore(db DB, table string, logger *slog.Logger) (*Store, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid filings table name %q", table)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, table: table, logger: logger}, nil
}

// Append inserts filings, skipping ids already present, and returns the
// number actually inserted.
func (s *Store) Append(ctx context.Context, filings []Filing) (int, error) {
	if len(filings) == 0 {
		return 0, nil
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, fund_name, manager_name, manager_type,
			working_state, mandator_name, put_on_record_date,
			establish_date, disclosure_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, s.table)

	batch := &pgx.Batch{}
	for _, f := range filings {
		batch.Queue(sql,
			f.ID, f.FundName, f.ManagerName, f.ManagerType,
			f.WorkingState, f.MandatorName, f.PutOnRecord,
			f.EstablishDate, f.DisclosureURL)
	}

	start := time.Now()
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range filings {
		ct, err := results.Exec()
		if err != nil {
			return 0, fmt.Errorf("appending filings: %w", err)
		}
		if ct.RowsAffected() > 0 {
			inserted++
		}
	}

	s.logger.Debug("appended filings",
		"table", s.table,
		"count", len(filings),
		"inserted", inserted,
		"duration", time.Since(start),
	)
	return inserted, nil
}

// UpdateKeyed sets one column for a batch of filing ids inside a single
// transaction. Used for backfilling attributes the original filing pull
// did not carry.
func (s *Store) UpdateKeyed(ctx context.Context, column string, values map[int64]string) error {
	if !identPattern.MatchString(column) {
		return fmt.Errorf("invalid column name %q", column)
	}
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning keyed update: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE id = $2", s.table, column)
	updated := 0
	for id, v := range values {
		ct, err := tx.Exec(ctx, sql, v, id)
		if err != nil {
			return fmt.Errorf("updating %s for id %d: %w", column, id, err)
		}
		updated += int(ct.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing keyed update: %w", err)
	}

	s.logger.Info("keyed column update",
		"table", s.table,
		"column", column,
		"keys", len(values),
		"rows_updated", updated,
	)
	return nil
}
