package basis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// Contracts is the set of index-futures families the loader knows.
var Contracts = []string{"IF", "IC", "IM", "IH"}

// depth is how many daily rows the chart endpoint is asked for, roughly one
// trading year.
const depth = 251

// Record is one daily basis observation for a dominant contract.
type Record struct {
	Date            time.Time
	Contract        string
	FuturesPrice    decimal.Decimal
	SpotPrice       decimal.Decimal
	Basis           decimal.Decimal
	Expiry          time.Time
	DaysToExpiry    int
	InterimDividend decimal.Decimal
	AdjustedBasis   decimal.Decimal
	DominantAnnlPct decimal.Decimal
	AnnualizedPct   decimal.Decimal
}

// The endpoint returns a JSON envelope whose content is an HTML fragment;
// the rows live in a <script> as `var SrcData = [...];`.
type envelope struct {
	Content []struct {
		HTML string `json:"html"`
	} `json:"content"`
}

// wireRecord mirrors the upstream's Chinese column names.
type wireRecord struct {
	Date            string          `json:"日期"`
	Contract        string          `json:"主力合约"`
	FuturesPrice    decimal.Decimal `json:"期货价格"`
	SpotPrice       decimal.Decimal `json:"现货价格"`
	Basis           decimal.Decimal `json:"基差"`
	Expiry          string          `json:"到期日"`
	DaysToExpiry    int             `json:"剩余天数"`
	InterimDividend decimal.Decimal `json:"期内分红"`
	AdjustedBasis   decimal.Decimal `json:"矫正基差"`
	DominantAnnlPct decimal.Decimal `json:"主力年化基差(%)"`
	AnnualizedPct   decimal.Decimal `json:"年化基差(%)"`
}

var srcDataPattern = regexp.MustCompile(`(?s)var\s+SrcData\s*=\s*(\[.*?\]);`)

// Client fetches basis rows over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a basis client against the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads the basis history for one contract family ("IF", "IC", "IM"
// or "IH"), newest rows last.
func (c *Client) Fetch(ctx context.Context, contract string) ([]Record, error) {
	if !validContract(contract) {
		return nil, fmt.Errorf("unknown contract family %q", contract)
	}

	form := url.Values{
		"params":           {fmt.Sprintf(`{"head":"%s","N":%d}`, contract, depth)},
		"PageID":           {"46803"},
		"websiteID":        {"20906"},
		"ContentID":        {"Content"},
		"UserID":           {""},
		"menup":            {"0"},
		"_cb":              {""},
		"_cbdata":          {""},
		"_cbExec":          {"1"},
		"_cbDispType":      {"1"},
		"__pageState":      {"0"},
		"__globalUrlParam": {`{"PageID":"46803","pageid":"46803"}`},
		"g_randomid":       {"randomid_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:27]},
		"np":               {`["46803@Content@TwebCom_div_1_0@220907102451613"]`},
		"modename":         {"amljaGFfZGFpbHlfY2hhcnRfN0Q5MTQ5NDE="},
		"creator":          {"cjzq"},
	}

	endpoint := c.baseURL + "/website/loadContentDataAjax.tsl?ref=js"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s basis: %w", contract, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s basis: status %d", contract, resp.StatusCode)
	}

	records, err := parsePayload(contract, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched basis rows",
		"contract", contract,
		"rows", len(records),
		"duration", time.Since(start),
	)
	return records, nil
}

// parsePayload digs the SrcData array out of the embedded HTML fragment.
func parsePayload(contract string, body []byte) ([]Record, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing %s basis envelope: %w", contract, err)
	}
	if len(env.Content) == 0 {
		return nil, fmt.Errorf("parsing %s basis: empty content", contract)
	}

	m := srcDataPattern.FindStringSubmatch(env.Content[0].HTML)
	if m == nil {
		return nil, fmt.Errorf("parsing %s basis: SrcData not found in fragment", contract)
	}

	var wire []wireRecord
	if err := json.Unmarshal([]byte(m[1]), &wire); err != nil {
		return nil, fmt.Errorf("parsing %s basis rows: %w", contract, err)
	}

	records := make([]Record, 0, len(wire))
	for _, w := range wire {
		date, err := time.Parse(model.DateLayout, w.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing %s basis date %q: %w", contract, w.Date, err)
		}
		expiry, err := time.Parse(model.DateLayout, w.Expiry)
		if err != nil {
			return nil, fmt.Errorf("parsing %s basis expiry %q: %w", contract, w.Expiry, err)
		}
		records = append(records, Record{
			Date:            date,
			Contract:        w.Contract,
			FuturesPrice:    w.FuturesPrice,
			SpotPrice:       w.SpotPrice,
			Basis:           w.Basis,
			Expiry:          expiry,
			DaysToExpiry:    w.DaysToExpiry,
			InterimDividend: w.InterimDividend,
			AdjustedBasis:   w.AdjustedBasis,
			DominantAnnlPct: w.DominantAnnlPct,
			AnnualizedPct:   w.AnnualizedPct,
		})
	}
	return records, nil
}

func validContract(contract string) bool {
	for _, c := range Contracts {
		if c == contract {
			return true
		}
	}
	return false
}
