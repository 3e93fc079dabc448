package provider

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

var csiMinStart = time.Date(2005, 1, 4, 0, 0, 0, 0, time.UTC)

// CSI fetches daily index performance from the CSI index API. The API
// honors the requested window. Volume is reported in units of 10,000 lots
// and amount in units of 100,000,000 CNY; both are left native here and
// rescaled by the normalizer. Percent change comes from the native
// changePct column.
type CSI struct {
	t *transport
}

var _ Adapter = (*CSI)(nil)

// NewCSI creates a CSI adapter for the given API base URL.
func NewCSI(baseURL string, opts ...Option) *CSI {
	return &CSI{t: newTransport(baseURL, opts...)}
}

func (c *CSI) Tag() model.ProviderTag { return model.ProviderCSI }

func (c *CSI) MinStartDate() time.Time { return csiMinStart }

// csiBar mirrors the index-perf API's native JSON schema.
type csiBar struct {
	TradeDate    string          `json:"tradeDate"`
	Open         decimal.Decimal `json:"open"`
	High         decimal.Decimal `json:"high"`
	Low          decimal.Decimal `json:"low"`
	Close        decimal.Decimal `json:"close"`
	TradingVol   decimal.Decimal `json:"tradingVol"`
	TradingValue decimal.Decimal `json:"tradingValue"`
	ChangePct    decimal.Decimal `json:"changePct"`
}

type csiPerfResponse struct {
	Data []csiBar `json:"data"`
}

func (c *CSI) Fetch(ctx context.Context, nativeID string, start, end time.Time) ([]RawRow, error) {
	query := url.Values{}
	query.Set("indexCode", nativeID)
	query.Set("startDate", start.Format(wireDateLayout))
	query.Set("endDate", end.Format(wireDateLayout))

	var resp csiPerfResponse
	if err := c.t.getJSON(ctx, "/csindex-home/perf/index-perf", query, &resp); err != nil {
		return nil, &UnavailableError{Provider: model.ProviderCSI, Err: err}
	}

	rows := make([]RawRow, 0, len(resp.Data))
	for _, b := range resp.Data {
		d, err := time.Parse(wireDateLayout, b.TradeDate)
		if err != nil {
			return nil, &UnavailableError{Provider: model.ProviderCSI, Err: err}
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		rows = append(rows, RawRow{
			Date:      d,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.TradingVol,
			Amount:    b.TradingValue,
			PctChg:    b.ChangePct,
			HasPctChg: true,
		})
	}
	sortByDate(rows)
	return rows, nil
}
