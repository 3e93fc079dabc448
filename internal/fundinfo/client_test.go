package fundinfo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchSince_WalksAllPages(t *testing.T) {
	// 2024-01-10 00:00 UTC in epoch millis.
	const jan10 = int64(1704844800000)

	var queries []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q map[string]any
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Fatalf("decoding query body: %v", err)
		}
		queries = append(queries, q)

		page := r.URL.Query().Get("page")
		if r.URL.Query().Get("size") != "2" {
			t.Errorf("size = %q, want 2", r.URL.Query().Get("size"))
		}

		resp := map[string]any{"totalElements": 3}
		switch page {
		case "0":
			resp["content"] = []map[string]any{
				{"id": 1, "fundName": "Fund A", "managerName": "Mgr A", "putOnRecordDate": jan10, "establishDate": jan10},
				{"id": 2, "fundName": "Fund B", "managerName": "Mgr B", "putOnRecordDate": jan10, "establishDate": jan10},
			}
		case "1":
			resp["content"] = []map[string]any{
				{"id": 3, "fundName": "Fund C", "managerName": "Mgr C", "putOnRecordDate": jan10, "establishDate": jan10},
			}
		default:
			t.Errorf("unexpected page %q requested", page)
			resp["content"] = []map[string]any{}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithPageSize(2))
	since := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filings, err := client.FetchSince(context.Background(), "", since)
	if err != nil {
		t.Fatalf("FetchSince() error: %v", err)
	}

	if len(filings) != 3 {
		t.Fatalf("len(filings) = %d, want 3", len(filings))
	}
	if filings[2].ID != 3 || filings[2].FundName != "Fund C" {
		t.Errorf("filings[2] = %+v, want id 3 Fund C", filings[2])
	}
	if !filings[0].PutOnRecord.Equal(since) {
		t.Errorf("PutOnRecord = %v, want %v", filings[0].PutOnRecord, since)
	}

	if len(queries) != 2 {
		t.Fatalf("requests = %d, want 2", len(queries))
	}
	window, ok := queries[0]["putOnRecordDate"].(map[string]any)
	if !ok {
		t.Fatalf("query missing putOnRecordDate window: %v", queries[0])
	}
	if window["from"] != "2024-01-10" || window["to"] != "9999-01-01" {
		t.Errorf("window = %v, want from 2024-01-10 to 9999-01-01", window)
	}
}

func TestFetchSince_EmptyFirstPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"totalElements": 0,
			"content":       []map[string]any{},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	filings, err := client.FetchSince(context.Background(), "", time.Now())
	if err != nil {
		t.Fatalf("FetchSince() error: %v", err)
	}
	if len(filings) != 0 {
		t.Errorf("len(filings) = %d, want 0", len(filings))
	}
}

func TestFetchSince_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FetchSince(context.Background(), "", time.Now()); err == nil {
		t.Error("FetchSince() expected error for 429, got nil")
	}
}

func TestMillisToDay(t *testing.T) {
	// 2024-01-10 15:30 UTC truncates to the day.
	got := millisToDay(1704900600000)
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("millisToDay() = %v, want %v", got, want)
	}
}
