package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

var cniMinStart = time.Date(2013, 1, 4, 0, 0, 0, 0, time.UTC)

// CNI fetches daily index quotations from the CNI index API. The API
// honors the requested window, reports base units, and carries a native
// percentChange column. Responses use an envelope with a numeric status
// code; any code other than 200 is treated as an upstream failure.
type CNI struct {
	t *transport
}

var _ Adapter = (*CNI)(nil)

// NewCNI creates a CNI adapter for the given API base URL.
func NewCNI(baseURL string, opts ...Option) *CNI {
	return &CNI{t: newTransport(baseURL, opts...)}
}

func (c *CNI) Tag() model.ProviderTag { return model.ProviderCNI }

func (c *CNI) MinStartDate() time.Time { return cniMinStart }

// cniBar mirrors the quotation API's native JSON schema.
type cniBar struct {
	TradeDate     string          `json:"tradeDate"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	Volume        decimal.Decimal `json:"volume"`
	Amount        decimal.Decimal `json:"amount"`
	PercentChange decimal.Decimal `json:"percentChange"`
}

type cniQuotationResponse struct {
	Code int      `json:"code"`
	Msg  string   `json:"msg"`
	Data []cniBar `json:"data"`
}

func (c *CNI) Fetch(ctx context.Context, nativeID string, start, end time.Time) ([]RawRow, error) {
	query := url.Values{}
	query.Set("indexCode", nativeID)
	query.Set("startDate", start.Format(model.DateLayout))
	query.Set("endDate", end.Format(model.DateLayout))

	var resp cniQuotationResponse
	if err := c.t.getJSON(ctx, "/api/index/quotation", query, &resp); err != nil {
		return nil, &UnavailableError{Provider: model.ProviderCNI, Err: err}
	}
	if resp.Code != 200 {
		return nil, &UnavailableError{
			Provider: model.ProviderCNI,
			Err:      fmt.Errorf("upstream code %d: %s", resp.Code, resp.Msg),
		}
	}

	rows := make([]RawRow, 0, len(resp.Data))
	for _, b := range resp.Data {
		d, err := time.Parse(model.DateLayout, b.TradeDate)
		if err != nil {
			return nil, &UnavailableError{Provider: model.ProviderCNI, Err: err}
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
			Volume:    b.Volume,
			Amount:    b.Amount,
			PctChg:    b.PercentChange,
			HasPctChg: true,
		})
	}
	sortByDate(rows)
	return rows, nil
}
