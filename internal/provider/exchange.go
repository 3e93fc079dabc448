package provider

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// wireDateLayout is the compact YYYYMMDD form used in query parameters.
const wireDateLayout = "20060102"

var exchangeMinStart = time.Date(2015, 1, 5, 0, 0, 0, 0, time.UTC)

var hundred = decimal.NewFromInt(100)

// Exchange fetches daily bars from the domestic exchange feed. The feed
// reports volume in shares and amount in CNY, but carries no percent-change
// column, so the adapter widens the request one weekday backward and
// differences consecutive closes itself. The lookback rows are dropped
// before returning.
type Exchange struct {
	t *transport
}

var _ Adapter = (*Exchange)(nil)

// NewExchange creates an Exchange adapter for the given API base URL.
func NewExchange(baseURL string, opts ...Option) *Exchange {
	return &Exchange{t: newTransport(baseURL, opts...)}
}

func (e *Exchange) Tag() model.ProviderTag { return model.ProviderExchange }

func (e *Exchange) MinStartDate() time.Time { return exchangeMinStart }

// exchangeBar mirrors the feed's native JSON schema.
type exchangeBar struct {
	Date   string          `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
	Amount decimal.Decimal `json:"amount"`
}

// Fetch returns bars for [start, end]. The upstream request starts at the
// weekday before start so the first in-window row gets a differenced
// PCT_CHG; the extra row never appears in the result.
func (e *Exchange) Fetch(ctx context.Context, nativeID string, start, end time.Time) ([]RawRow, error) {
	lookbackStart := prevWeekday(start)

	query := url.Values{}
	query.Set("symbol", nativeID)
	query.Set("start_date", lookbackStart.Format(wireDateLayout))
	query.Set("end_date", end.Format(wireDateLayout))

	var bars []exchangeBar
	if err := e.t.getJSON(ctx, "/api/daily", query, &bars); err != nil {
		return nil, &UnavailableError{Provider: model.ProviderExchange, Err: err}
	}
	if len(bars) == 0 {
		return nil, nil
	}

	rows := make([]RawRow, 0, len(bars))
	for _, b := range bars {
		d, err := time.Parse(model.DateLayout, b.Date)
		if err != nil {
			return nil, &UnavailableError{Provider: model.ProviderExchange, Err: err}
		}
		rows = append(rows, RawRow{
			Date:   d,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
			Amount: b.Amount,
		})
	}
	sortByDate(rows)

	// Difference consecutive closes, then discard the lookback rows so the
	// widened window never leaks upstream.
	for i := 1; i < len(rows); i++ {
		prev := rows[i-1].Close
		if prev.IsPositive() {
			rows[i].PctChg = rows[i].Close.Div(prev).Sub(decimal.NewFromInt(1)).Mul(hundred)
			rows[i].HasPctChg = true
		}
	}
	inWindow := rows[:0]
	for _, r := range rows {
		if !r.Date.Before(start) {
			inWindow = append(inWindow, r)
		}
	}
	return inWindow, nil
}
