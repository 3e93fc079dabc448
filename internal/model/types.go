package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical date format used in holiday files, registry
// rows and provider wire formats.
const DateLayout = "2006-01-02"

// ProviderTag identifies which upstream data source a series is synced from.
type ProviderTag string

const (
	// ProviderExchange is the domestic exchange daily-bar feed.
	ProviderExchange ProviderTag = "exchange"
	// ProviderWind is the Wind index website Kline API.
	ProviderWind ProviderTag = "wind"
	// ProviderCSI is the CSI index performance API.
	ProviderCSI ProviderTag = "csi"
	// ProviderCNI is the CNI index quotation API.
	ProviderCNI ProviderTag = "cni"
)

// AllProviderTags lists every known tag. Normalization rules are checked
// against this list at init time so a new provider cannot ship without a
// unit mapping.
var AllProviderTags = []ProviderTag{
	ProviderExchange,
	ProviderWind,
	ProviderCSI,
	ProviderCNI,
}

// ParseProviderTag maps a registry source string to a ProviderTag. Legacy
// registry rows use "ak" for the exchange feed and upper-case "CSI".
func ParseProviderTag(s string) (ProviderTag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exchange", "ak", "akshare":
		return ProviderExchange, nil
	case "wind":
		return ProviderWind, nil
	case "csi":
		return ProviderCSI, nil
	case "cni":
		return ProviderCNI, nil
	default:
		return "", fmt.Errorf("unknown provider tag %q", s)
	}
}

// Series is one tracked index/instrument from the registry table.
type Series struct {
	Code       string      // canonical code (e.g. "000905.SH"), primary key
	Provider   ProviderTag // which adapter fetches this series
	NativeID   string      // provider-native identifier (symbol or vendor id)
	LastSynced *time.Time  // watermark; nil means never synced
}

// Row is the canonical daily bar shape every provider is normalized into.
// Uniqueness in storage is on (Code, Date).
type Row struct {
	Code   string
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
	Amount decimal.Decimal
	PctChg decimal.Decimal
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MaxDate returns the latest Date among rows. The second return value is
// false when rows is empty.
func MaxDate(rows []Row) (time.Time, bool) {
	if len(rows) == 0 {
		return time.Time{}, false
	}
	max := rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max, true
}
