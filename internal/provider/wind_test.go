package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWind_Fetch_FiltersToWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("indexId"); got != "6644c422" {
			t.Errorf("indexId = %q, want %q", got, "6644c422")
		}
		w.Write([]byte(`{"Result":{"data":[
			{"tradeDate":"20240110","open":100,"hight":101,"low":99,"close":100,"pctChange":-0.5,"volume":1000,"amount":100000},
			{"tradeDate":"20240111","open":100,"hight":103,"low":100,"close":102,"pctChange":2,"volume":1100,"amount":112200},
			{"tradeDate":"20240112","open":103,"hight":104,"low":102,"close":104,"pctChange":1.96,"volume":1200,"amount":124800}
		]}}`))
	}))
	defer srv.Close()

	adapter := NewWind(srv.URL)
	start := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	rows, err := adapter.Fetch(context.Background(), "6644c422", start, end)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (out-of-window row filtered)", len(rows))
	}
	if !rows[0].Date.Equal(start) {
		t.Errorf("rows[0].Date = %v, want %v", rows[0].Date, start)
	}
	if !rows[0].HasPctChg {
		t.Error("rows[0].HasPctChg = false, want true (native pctChange)")
	}
	if got := rows[0].PctChg.String(); got != "2" {
		t.Errorf("rows[0].PctChg = %s, want 2", got)
	}
	// "hight" is the native column name for the daily high.
	if got := rows[0].High.String(); got != "103" {
		t.Errorf("rows[0].High = %s, want 103", got)
	}
}

func TestWind_Fetch_MissingResultIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ErrorCode":-1}`))
	}))
	defer srv.Close()

	adapter := NewWind(srv.URL)
	d := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	if _, err := adapter.Fetch(context.Background(), "x", d, d); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
}

func TestWind_Fetch_EmptyDataIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Result":{"data":[]}}`))
	}))
	defer srv.Close()

	adapter := NewWind(srv.URL)
	d := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	rows, err := adapter.Fetch(context.Background(), "x", d, d)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}
