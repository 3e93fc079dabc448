package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// ErrUnavailable classifies any upstream failure: network error, non-2xx
// response, or a payload the adapter cannot decode.
var ErrUnavailable = errors.New("provider unavailable")

// UnavailableError wraps an upstream failure with the provider that
// produced it. errors.Is(err, ErrUnavailable) matches.
type UnavailableError struct {
	Provider model.ProviderTag
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// RawRow is a single daily bar as reported by a provider, with native units
// preserved. HasPctChg marks whether the provider (or the adapter's own
// lookback differencing) supplied a day-over-day percent change.
type RawRow struct {
	Date      time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	Amount    decimal.Decimal
	PctChg    decimal.Decimal
	HasPctChg bool
}

// Adapter fetches raw daily bars for one provider-native identifier over an
// inclusive date window.
type Adapter interface {
	// Tag identifies the provider for normalization dispatch.
	Tag() model.ProviderTag

	// MinStartDate is the earliest date this provider serves. Used as the
	// window start for series that have never been synced.
	MinStartDate() time.Time

	// Fetch returns bars for [start, end], possibly empty. Rows outside the
	// window must not leak into the result even when the adapter widens the
	// upstream request internally.
	Fetch(ctx context.Context, nativeID string, start, end time.Time) ([]RawRow, error)
}

// prevWeekday returns the weekday strictly before d, skipping Saturday and
// Sunday. Used to widen a fetch window backward by exactly one candidate
// trading day so day-over-day percent change can be differenced.
func prevWeekday(d time.Time) time.Time {
	p := d.AddDate(0, 0, -1)
	for p.Weekday() == time.Saturday || p.Weekday() == time.Sunday {
		p = p.AddDate(0, 0, -1)
	}
	return p
}

// sortByDate orders rows ascending by date, in place.
func sortByDate(rows []RawRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
}
