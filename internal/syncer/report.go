package syncer

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal per-series state of one run.
type Status string

const (
	// StatusUpdated means new rows were appended and the watermark advanced.
	StatusUpdated Status = "updated"
	// StatusUpToDate means the window start is already past today.
	StatusUpToDate Status = "up_to_date"
	// StatusNoNewData means the provider returned nothing for the window.
	StatusNoNewData Status = "no_new_data"
	// StatusNoNewTradingData means every fetched row fell on a non-trading
	// day; nothing was written and the watermark is untouched.
	StatusNoNewTradingData Status = "no_new_trading_data"
	// StatusFailed means the fetch or normalization failed, or the series
	// references an unknown provider.
	StatusFailed Status = "failed"
	// StatusWriteFailed means rows could not be durably persisted, or the
	// watermark advance failed after a successful append.
	StatusWriteFailed Status = "write_failed"
)

// Outcome is the result of syncing one series.
type Outcome struct {
	Status      Status
	Err         error
	RowsWritten int
	Watermark   *time.Time // new watermark when Status is StatusUpdated
}

// Report summarizes one engine run.
type Report struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	Outcomes map[string]Outcome // keyed by series code
}

// HasFailures reports whether any series ended failed or write-failed.
// Drives the process exit code.
func (r *Report) HasFailures() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed || o.Status == StatusWriteFailed {
			return true
		}
	}
	return false
}

// Count returns how many series ended in the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
