package config

import "time"

// Config is the root configuration shared by the sync binaries.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Database  DBConfig        `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Sync      SyncConfig      `yaml:"sync"`
	Basis     BasisConfig     `yaml:"basis"`
	FundInfo  FundInfoConfig  `yaml:"fund_info"`
}

// InstanceConfig identifies this syncer instance in logs.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DBConfig holds the datastore connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ProvidersConfig holds one endpoint entry per upstream data source.
type ProvidersConfig struct {
	Exchange ProviderConfig `yaml:"exchange"`
	Wind     ProviderConfig `yaml:"wind"`
	CSI      ProviderConfig `yaml:"csi"`
	CNI      ProviderConfig `yaml:"cni"`
}

// ProviderConfig holds a single upstream endpoint.
type ProviderConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SyncConfig holds the incremental index sync settings.
type SyncConfig struct {
	DataTable     string `yaml:"data_table"`     // canonical daily rows
	RegistryTable string `yaml:"registry_table"` // series registry + watermarks
	HolidayFile   string `yaml:"holiday_file"`   // one YYYY-MM-DD per line
	Concurrency   int    `yaml:"concurrency"`    // series synced in parallel
}

// BasisConfig holds the futures basis loader settings.
type BasisConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Contracts []string      `yaml:"contracts"` // e.g. IF, IC, IM, IH
}

// FundInfoConfig holds the fund registry enrichment settings.
type FundInfoConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	RawTable string        `yaml:"raw_table"` // append-only raw filings
	PageSize int           `yaml:"page_size"`
}
