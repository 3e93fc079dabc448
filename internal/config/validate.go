package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Sync.Concurrency < 1 {
		return errors.New("sync.concurrency must be >= 1")
	}
	if c.Sync.DataTable == "" {
		return errors.New("sync.data_table is required")
	}
	if c.Sync.RegistryTable == "" {
		return errors.New("sync.registry_table is required")
	}
	if c.Sync.HolidayFile == "" {
		return errors.New("sync.holiday_file is required")
	}

	for name, p := range map[string]ProviderConfig{
		"providers.exchange": c.Providers.Exchange,
		"providers.wind":     c.Providers.Wind,
		"providers.csi":      c.Providers.CSI,
		"providers.cni":      c.Providers.CNI,
	} {
		if p.BaseURL == "" {
			return fmt.Errorf("%s.base_url is required", name)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("%s.timeout must be positive", name)
		}
	}

	if c.FundInfo.PageSize < 1 {
		return errors.New("fund_info.page_size must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
