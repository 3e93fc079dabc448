// Package normalize converts provider-native raw bars into the canonical
// row shape: base-unit volumes and amounts, ascending date order, and a
// PCT_CHG column in percentage points.
//
// Every provider tag has exactly one rule entry; completeness over
// model.AllProviderTags is enforced at init so a new provider cannot ship
// without declaring its units.
package normalize

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/provider"
)

// Error reports rows a provider returned that cannot be normalized, e.g.
// after an upstream schema change left required fields empty.
type Error struct {
	Provider model.ProviderTag
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize %s rows: %s", e.Provider, e.Reason)
}

// rule declares how one provider's native units map to canonical units.
// Shifts are decimal powers of ten: CSI reports volume in 10,000-lot units
// (shift +4) and amount in 100,000,000-CNY units (shift +8).
type rule struct {
	volumeShift int32
	amountShift int32
	derivePct   bool // difference closes when a row carries no native pct
}

var rules = map[model.ProviderTag]rule{
	model.ProviderExchange: {volumeShift: 0, amountShift: 0, derivePct: true},
	model.ProviderWind:     {volumeShift: 0, amountShift: 0},
	model.ProviderCSI:      {volumeShift: 4, amountShift: 8},
	model.ProviderCNI:      {volumeShift: 0, amountShift: 0},
}

func init() {
	for _, tag := range model.AllProviderTags {
		if _, ok := rules[tag]; !ok {
			panic(fmt.Sprintf("normalize: no rule for provider tag %q", tag))
		}
	}
}

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Rows normalizes raw bars fetched for code from the tagged provider.
// Placeholder rows with a non-positive close are dropped. Output is ordered
// ascending by date.
func Rows(tag model.ProviderTag, code string, raws []provider.RawRow) ([]model.Row, error) {
	r, ok := rules[tag]
	if !ok {
		return nil, &Error{Provider: tag, Reason: "unknown provider tag"}
	}

	kept := make([]provider.RawRow, 0, len(raws))
	for _, raw := range raws {
		if raw.Date.IsZero() {
			return nil, &Error{Provider: tag, Reason: "row with missing date"}
		}
		if !raw.Close.IsPositive() {
			// Providers pad non-trading dates inside the window with
			// zero-close placeholder rows.
			continue
		}
		kept = append(kept, raw)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	rows := make([]model.Row, 0, len(kept))
	for i, raw := range kept {
		row := model.Row{
			Code:   code,
			Date:   model.Day(raw.Date),
			Open:   raw.Open,
			High:   raw.High,
			Low:    raw.Low,
			Close:  raw.Close,
			Volume: raw.Volume.Shift(r.volumeShift),
			Amount: raw.Amount.Shift(r.amountShift),
		}
		switch {
		case raw.HasPctChg:
			row.PctChg = raw.PctChg
		case r.derivePct && i > 0 && kept[i-1].Close.IsPositive():
			row.PctChg = raw.Close.Div(kept[i-1].Close).Sub(one).Mul(hundred)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
