package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/provider"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestRows_UnitRescaleCSI(t *testing.T) {
	raws := []provider.RawRow{
		{
			Date:      day(11),
			Open:      dec("100.1"),
			Close:     dec("102.2"),
			Volume:    dec("123.45"), // 10,000-lot units
			Amount:    dec("1.5"),    // 100,000,000-CNY units
			PctChg:    dec("2.1"),
			HasPctChg: true,
		},
	}

	rows, err := Rows(model.ProviderCSI, "000985.CSI", raws)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if got := rows[0].Volume.String(); got != "1234500" {
		t.Errorf("Volume = %s, want 1234500", got)
	}
	if got := rows[0].Amount.String(); got != "150000000" {
		t.Errorf("Amount = %s, want 150000000", got)
	}
	if got := rows[0].PctChg.String(); got != "2.1" {
		t.Errorf("PctChg = %s, want 2.1", got)
	}
	if rows[0].Code != "000985.CSI" {
		t.Errorf("Code = %q, want %q", rows[0].Code, "000985.CSI")
	}
}

func TestRows_BaseUnitsPassThrough(t *testing.T) {
	raws := []provider.RawRow{
		{Date: day(11), Close: dec("102"), Volume: dec("1100"), Amount: dec("112200"), PctChg: dec("2"), HasPctChg: true},
	}
	rows, err := Rows(model.ProviderWind, "868008.WI", raws)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if got := rows[0].Volume.String(); got != "1100" {
		t.Errorf("Volume = %s, want 1100", got)
	}
	if got := rows[0].Amount.String(); got != "112200" {
		t.Errorf("Amount = %s, want 112200", got)
	}
}

func TestRows_DropsNonPositiveClose(t *testing.T) {
	raws := []provider.RawRow{
		{Date: day(11), Close: dec("102")},
		{Date: day(12), Close: decimal.Zero}, // placeholder row
		{Date: day(13), Close: dec("-1")},
	}
	rows, err := Rows(model.ProviderCNI, "X", raws)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want 1", len(rows))
	}
}

func TestRows_SortsAscendingAndDerivesPct(t *testing.T) {
	raws := []provider.RawRow{
		{Date: day(12), Close: dec("104.04")},
		{Date: day(10), Close: dec("100")},
		{Date: day(11), Close: dec("102")},
	}
	rows, err := Rows(model.ProviderExchange, "X", raws)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if !rows[i].Date.After(rows[i-1].Date) {
			t.Errorf("rows not ascending at %d: %v then %v", i, rows[i-1].Date, rows[i].Date)
		}
	}
	// First row has no predecessor, pct stays zero.
	if !rows[0].PctChg.IsZero() {
		t.Errorf("rows[0].PctChg = %s, want 0", rows[0].PctChg)
	}
	if got := rows[1].PctChg.StringFixed(4); got != "2.0000" {
		t.Errorf("rows[1].PctChg = %s, want 2.0000", got)
	}
	if got := rows[2].PctChg.StringFixed(4); got != "2.0000" {
		t.Errorf("rows[2].PctChg = %s, want 2.0000", got)
	}
}

func TestRows_NativePctWinsOverDerivation(t *testing.T) {
	raws := []provider.RawRow{
		{Date: day(11), Close: dec("100")},
		{Date: day(12), Close: dec("102"), PctChg: dec("1.99"), HasPctChg: true},
	}
	rows, err := Rows(model.ProviderExchange, "X", raws)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if got := rows[1].PctChg.String(); got != "1.99" {
		t.Errorf("PctChg = %s, want native 1.99", got)
	}
}

func TestRows_MissingDateIsError(t *testing.T) {
	raws := []provider.RawRow{{Close: dec("1")}}
	if _, err := Rows(model.ProviderWind, "X", raws); err == nil {
		t.Error("Rows() error = nil, want error for missing date")
	}
}

func TestRules_CoverAllProviderTags(t *testing.T) {
	for _, tag := range model.AllProviderTags {
		if _, ok := rules[tag]; !ok {
			t.Errorf("no normalization rule for tag %q", tag)
		}
	}
}
