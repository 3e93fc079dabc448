package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/calendar"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/normalize"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/provider"
)

// Sink durably appends canonical rows. Append must be safe for concurrent
// callers writing disjoint (code, date) sets and must never overwrite an
// existing row.
type Sink interface {
	Append(ctx context.Context, rows []model.Row) (int, error)
}

// WatermarkStore advances the per-series watermark. Advance must be atomic
// per series; no cross-series coordination is assumed.
type WatermarkStore interface {
	Advance(ctx context.Context, code string, d time.Time) error
}

// Config holds engine settings.
type Config struct {
	// Concurrency bounds how many series sync in parallel. Series are
	// independent units of work; 1 (the default) processes them
	// sequentially, which is gentle on upstream rate limits.
	Concurrency int
}

// Engine runs the per-series sync loop.
type Engine struct {
	cfg        Config
	adapters   map[model.ProviderTag]provider.Adapter
	sink       Sink
	watermarks WatermarkStore
	holidays   calendar.HolidaySet
	logger     *slog.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New creates an Engine. All collaborators are injected; the engine holds
// no global state.
func New(
	cfg Config,
	adapters []provider.Adapter,
	sink Sink,
	watermarks WatermarkStore,
	holidays calendar.HolidaySet,
	logger *slog.Logger,
) *Engine {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	byTag := make(map[model.ProviderTag]provider.Adapter, len(adapters))
	for _, a := range adapters {
		byTag[a.Tag()] = a
	}

	return &Engine{
		cfg:        cfg,
		adapters:   byTag,
		sink:       sink,
		watermarks: watermarks,
		holidays:   holidays,
		logger:     logger,
		now:        time.Now,
	}
}

// Run syncs every series and returns the per-series outcome report. Errors
// are data here: a series failing never stops its siblings.
func (e *Engine) Run(ctx context.Context, series []model.Series) *Report {
	report := &Report{
		RunID:    uuid.New(),
		Started:  e.now(),
		Outcomes: make(map[string]Outcome, len(series)),
	}
	logger := e.logger.With("run_id", report.RunID)

	logger.Info("sync run starting",
		"series", len(series),
		"concurrency", e.cfg.Concurrency,
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for _, s := range series {
		s := s
		g.Go(func() error {
			outcome := e.syncOne(gctx, logger, s)
			mu.Lock()
			report.Outcomes[s.Code] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in the report

	report.Finished = e.now()
	logger.Info("sync run finished",
		"updated", report.Count(StatusUpdated),
		"up_to_date", report.Count(StatusUpToDate),
		"no_new_data", report.Count(StatusNoNewData)+report.Count(StatusNoNewTradingData),
		"failed", report.Count(StatusFailed),
		"write_failed", report.Count(StatusWriteFailed),
		"duration", report.Finished.Sub(report.Started),
	)
	return report
}

// syncOne runs the full fetch -> normalize -> filter -> append -> advance
// sequence for a single series.
func (e *Engine) syncOne(ctx context.Context, logger *slog.Logger, s model.Series) Outcome {
	log := logger.With("code", s.Code, "provider", string(s.Provider))

	adapter, ok := e.adapters[s.Provider]
	if !ok {
		err := fmt.Errorf("series %s: no adapter for provider tag %q", s.Code, s.Provider)
		log.Error("series misconfigured", "error", err)
		return Outcome{Status: StatusFailed, Err: err}
	}

	windowStart := adapter.MinStartDate()
	if s.LastSynced != nil {
		windowStart = model.Day(*s.LastSynced).AddDate(0, 0, 1)
	}
	today := model.Day(e.now())

	if windowStart.After(today) {
		log.Debug("series up to date")
		return Outcome{Status: StatusUpToDate}
	}

	log.Debug("fetching window",
		"start", windowStart.Format(model.DateLayout),
		"end", today.Format(model.DateLayout),
	)

	raws, err := adapter.Fetch(ctx, s.NativeID, windowStart, today)
	if err != nil {
		log.Error("fetch failed", "error", err)
		return Outcome{Status: StatusFailed, Err: err}
	}

	rows, err := normalize.Rows(s.Provider, s.Code, raws)
	if err != nil {
		log.Error("normalization failed", "error", err)
		return Outcome{Status: StatusFailed, Err: err}
	}
	if len(rows) == 0 {
		log.Info("no new data")
		return Outcome{Status: StatusNoNewData}
	}

	// Trim widened-window leakage and non-trading days. An empty result
	// here must NOT advance the watermark: skipping ahead over a provider
	// outage would silently lose the gap forever.
	filtered := rows[:0]
	for _, r := range rows {
		if r.Date.Before(windowStart) {
			continue
		}
		if !calendar.IsTradingDay(r.Date, e.holidays) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		log.Info("no new trading-day data", "fetched", len(rows))
		return Outcome{Status: StatusNoNewTradingData}
	}

	inserted, err := e.sink.Append(ctx, filtered)
	if err != nil {
		log.Error("append failed", "error", err, "rows", len(filtered))
		return Outcome{Status: StatusWriteFailed, Err: err}
	}

	// Advance to the max date actually written, never to the window end: a
	// provider that only has data through T-2 must be re-asked for T-1 and
	// T on the next run.
	maxDate, _ := model.MaxDate(filtered)
	if err := e.watermarks.Advance(ctx, s.Code, maxDate); err != nil {
		log.Error("watermark advance failed", "error", err)
		return Outcome{Status: StatusWriteFailed, Err: err}
	}

	log.Info("series updated",
		"rows", len(filtered),
		"inserted", inserted,
		"watermark", maxDate.Format(model.DateLayout),
	)
	return Outcome{
		Status:      StatusUpdated,
		RowsWritten: len(filtered),
		Watermark:   &maxDate,
	}
}
