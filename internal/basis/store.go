package basis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the store uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store replace-writes basis records into per-contract tables (if_data,
// ic_data, im_data, ih_data).
type Store struct {
	db     DB
	logger *slog.Logger
}

// NewStore creates a basis store.
func NewStore(db DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Replace swaps the contract family's table contents for the given records
// in a single transaction. Upstream recomputes adjusted-basis columns
// retroactively, so stale rows must not survive.
func (s *Store) Replace(ctx context.Context, contract string, records []Record) error {
	if !validContract(contract) {
		return fmt.Errorf("unknown contract family %q", contract)
	}
	table := strings.ToLower(contract) + "_data"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning %s replace: %w", table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	sql := fmt.Sprintf(`
		INSERT INTO %s (date, contract, futures_price, spot_price, basis,
			expiry, days_to_expiry, interim_dividend, adjusted_basis,
			dominant_annualized_pct, annualized_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, table)

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(sql,
			r.Date, r.Contract, r.FuturesPrice, r.SpotPrice, r.Basis,
			r.Expiry, r.DaysToExpiry, r.InterimDividend, r.AdjustedBasis,
			r.DominantAnnlPct, r.AnnualizedPct)
	}

	start := time.Now()
	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing %s batch: %w", table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing %s replace: %w", table, err)
	}

	s.logger.Info("replaced basis table",
		"table", table,
		"rows", len(records),
		"duration", time.Since(start),
	)
	return nil
}
