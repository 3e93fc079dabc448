package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultExchangeURL = "https://quotes.sse.com.cn"
	DefaultWindURL     = "https://indexapi.wind.com.cn"
	DefaultCSIURL      = "https://www.csindex.com.cn"
	DefaultCNIURL      = "https://www.cnindex.com.cn"

	DefaultProviderTimeout = 30 * time.Second

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultDataTable     = "bench_basic_data"
	DefaultRegistryTable = "bench_info"
	DefaultHolidayFile   = "data/chinese_special_holiday.txt"
	DefaultConcurrency   = 1

	DefaultBasisURL     = "https://web.tinysoft.com.cn"
	DefaultFundInfoURL  = "https://gs.amac.org.cn"
	DefaultFundRawTable = "raw_pfund_info"
	DefaultFundPageSize = 100
)

// DefaultBasisContracts are the index futures families tracked by default.
var DefaultBasisContracts = []string{"IF", "IC", "IM", "IH"}

func (c *Config) applyDefaults() {
	applyProviderDefaults(&c.Providers.Exchange, DefaultExchangeURL)
	applyProviderDefaults(&c.Providers.Wind, DefaultWindURL)
	applyProviderDefaults(&c.Providers.CSI, DefaultCSIURL)
	applyProviderDefaults(&c.Providers.CNI, DefaultCNIURL)

	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	if c.Sync.DataTable == "" {
		c.Sync.DataTable = DefaultDataTable
	}
	if c.Sync.RegistryTable == "" {
		c.Sync.RegistryTable = DefaultRegistryTable
	}
	if c.Sync.HolidayFile == "" {
		c.Sync.HolidayFile = DefaultHolidayFile
	}
	if c.Sync.Concurrency == 0 {
		c.Sync.Concurrency = DefaultConcurrency
	}

	if c.Basis.BaseURL == "" {
		c.Basis.BaseURL = DefaultBasisURL
	}
	if c.Basis.Timeout == 0 {
		c.Basis.Timeout = DefaultProviderTimeout
	}
	if len(c.Basis.Contracts) == 0 {
		c.Basis.Contracts = append([]string(nil), DefaultBasisContracts...)
	}

	if c.FundInfo.BaseURL == "" {
		c.FundInfo.BaseURL = DefaultFundInfoURL
	}
	if c.FundInfo.Timeout == 0 {
		c.FundInfo.Timeout = DefaultProviderTimeout
	}
	if c.FundInfo.RawTable == "" {
		c.FundInfo.RawTable = DefaultFundRawTable
	}
	if c.FundInfo.PageSize == 0 {
		c.FundInfo.PageSize = DefaultFundPageSize
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL string) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultProviderTimeout
	}
}
