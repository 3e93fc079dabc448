package fundinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// Filing is one fund registry record.
type Filing struct {
	ID            int64
	FundName      string
	ManagerName   string
	ManagerType   string
	WorkingState  string
	MandatorName  string
	PutOnRecord   time.Time
	EstablishDate time.Time
	DisclosureURL string
}

// openEndDate marks the upper bound of the filing-date window; the
// upstream treats it as "no upper bound".
const openEndDate = "9999-01-01"

type query struct {
	PutOnRecordDate dateRange `json:"putOnRecordDate"`
	Keyword         string    `json:"keyword"`
}

type dateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type page struct {
	TotalElements int          `json:"totalElements"`
	Content       []wireFiling `json:"content"`
}

type wireFiling struct {
	ID            int64  `json:"id"`
	FundName      string `json:"fundName"`
	ManagerName   string `json:"managerName"`
	ManagerType   string `json:"managerType"`
	WorkingState  string `json:"workingState"`
	MandatorName  string `json:"mandatorName"`
	PutOnRecord   int64  `json:"putOnRecordDate"` // epoch millis
	EstablishDate int64  `json:"establishDate"`   // epoch millis
	URL           string `json:"url"`
}

// Client queries the fund disclosure API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
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

// WithPageSize overrides the page size (default 100).
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewClient creates a fund registry client against the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageSize:   100,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSince returns every filing put on record on or after the given day,
// optionally narrowed by a keyword, walking all result pages.
func (c *Client) FetchSince(ctx context.Context, keyword string, since time.Time) ([]Filing, error) {
	q := query{
		PutOnRecordDate: dateRange{
			From: since.Format(model.DateLayout),
			To:   openEndDate,
		},
		Keyword: keyword,
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	var filings []Filing
	for pageNum := 0; ; pageNum++ {
		p, err := c.fetchPage(ctx, payload, pageNum)
		if err != nil {
			return nil, err
		}
		if len(p.Content) == 0 {
			break
		}
		for _, w := range p.Content {
			filings = append(filings, Filing{
				ID:            w.ID,
				FundName:      w.FundName,
				ManagerName:   w.ManagerName,
				ManagerType:   w.ManagerType,
				WorkingState:  w.WorkingState,
				MandatorName:  w.MandatorName,
				PutOnRecord:   millisToDay(w.PutOnRecord),
				EstablishDate: millisToDay(w.EstablishDate),
				DisclosureURL: w.URL,
			})
		}
		c.logger.Debug("fetched filings page",
			"page", pageNum,
			"rows", len(p.Content),
			"total", p.TotalElements,
		)
		if p.TotalElements <= (pageNum+1)*c.pageSize {
			break
		}
	}
	return filings, nil
}

func (c *Client) fetchPage(ctx context.Context, payload []byte, pageNum int) (*page, error) {
	endpoint := fmt.Sprintf("%s/amac-infodisc/api/pof/fund?page=%d&size=%d",
		c.baseURL, pageNum, c.pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching filings page %d: %w", pageNum, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching filings page %d: status %d", pageNum, resp.StatusCode)
	}

	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parsing filings page %d: %w", pageNum, err)
	}
	return &p, nil
}

// millisToDay truncates an epoch-millisecond timestamp to a UTC day.
func millisToDay(ms int64) time.Time {
	return model.Day(time.UnixMilli(ms).UTC())
}
