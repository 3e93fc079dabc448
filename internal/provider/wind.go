package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

var windMinStart = time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC)

// Wind fetches daily index bars from the Wind website Kline API. The API
// takes an opaque index id and always returns up to one year of history
// regardless of the requested window, so the adapter filters the response
// down to [start, end]. Percent change comes from the native pctChange
// column.
type Wind struct {
	t *transport
}

var _ Adapter = (*Wind)(nil)

// NewWind creates a Wind adapter for the given API base URL.
func NewWind(baseURL string, opts ...Option) *Wind {
	return &Wind{t: newTransport(baseURL, opts...)}
}

func (w *Wind) Tag() model.ProviderTag { return model.ProviderWind }

func (w *Wind) MinStartDate() time.Time { return windMinStart }

// windBar mirrors the Kline API's native JSON schema. "hight" is the API's
// own spelling.
type windBar struct {
	TradeDate string          `json:"tradeDate"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"hight"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	PctChange decimal.Decimal `json:"pctChange"`
	Volume    decimal.Decimal `json:"volume"`
	Amount    decimal.Decimal `json:"amount"`
}

type windKlineResponse struct {
	Result *struct {
		Data []windBar `json:"data"`
	} `json:"Result"`
}

func (w *Wind) Fetch(ctx context.Context, nativeID string, start, end time.Time) ([]RawRow, error) {
	query := url.Values{}
	query.Set("indexId", nativeID)
	query.Set("period", "1Y")
	query.Set("lan", "cn")

	var resp windKlineResponse
	if err := w.t.getJSON(ctx, "/indicesWebsite/api/Kline", query, &resp); err != nil {
		return nil, &UnavailableError{Provider: model.ProviderWind, Err: err}
	}
	if resp.Result == nil {
		return nil, &UnavailableError{
			Provider: model.ProviderWind,
			Err:      fmt.Errorf("malformed payload: missing Result"),
		}
	}

	rows := make([]RawRow, 0, len(resp.Result.Data))
	for _, b := range resp.Result.Data {
		d, err := time.Parse(wireDateLayout, b.TradeDate)
		if err != nil {
			return nil, &UnavailableError{Provider: model.ProviderWind, Err: err}
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
			PctChg:    b.PctChange,
			HasPctChg: true,
		})
	}
	sortByDate(rows)
	return rows, nil
}
