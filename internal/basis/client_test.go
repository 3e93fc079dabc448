package basis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const fragment = `<div id="chart"></div>
<script>
var SrcData = [
  {"日期":"2024-01-11","主力合约":"IF2401","期货价格":"3340.2","现货价格":"3352.8","基差":"-12.6","到期日":"2024-01-19","剩余天数":8,"期内分红":"0.4","矫正基差":"-12.2","主力年化基差(%)":"-16.65","年化基差(%)":"-15.90"},
  {"日期":"2024-01-12","主力合约":"IF2401","期货价格":"3331.0","现货价格":"3337.3","基差":"-6.3","到期日":"2024-01-19","剩余天数":7,"期内分红":"0.4","矫正基差":"-5.9","主力年化基差(%)":"-9.20","年化基差(%)":"-8.75"}
];
drawChart(SrcData);
</script>`

func basisServer(t *testing.T, gotForm *map[string][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if gotForm != nil {
			*gotForm = r.PostForm
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"html": fragment}},
		})
	}))
}

func TestFetch(t *testing.T) {
	var form map[string][]string
	srv := basisServer(t, &form)
	defer srv.Close()

	client := NewClient(srv.URL, WithTimeout(5*time.Second))
	records, err := client.Fetch(context.Background(), "IF")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	r := records[0]
	if !r.Date.Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2024-01-11", r.Date)
	}
	if r.Contract != "IF2401" {
		t.Errorf("Contract = %q, want IF2401", r.Contract)
	}
	if r.Basis.String() != "-12.6" {
		t.Errorf("Basis = %s, want -12.6", r.Basis)
	}
	if r.DaysToExpiry != 8 {
		t.Errorf("DaysToExpiry = %d, want 8", r.DaysToExpiry)
	}
	if !r.Expiry.Equal(time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expiry = %v, want 2024-01-19", r.Expiry)
	}
	if r.AnnualizedPct.String() != "-15.9" {
		t.Errorf("AnnualizedPct = %s, want -15.9", r.AnnualizedPct)
	}

	if got := form["params"]; len(got) != 1 || got[0] != `{"head":"IF","N":251}` {
		t.Errorf("params = %v, want IF head with depth 251", got)
	}
}

func TestFetch_UnknownContract(t *testing.T) {
	client := NewClient("http://localhost")
	if _, err := client.Fetch(context.Background(), "IZ"); err == nil {
		t.Error("Fetch(IZ) expected error, got nil")
	}
}

func TestFetch_MissingSrcData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"html": "<div>no script here</div>"}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Fetch(context.Background(), "IC"); err == nil {
		t.Error("Fetch() expected error for fragment without SrcData, got nil")
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Fetch(context.Background(), "IM"); err == nil {
		t.Error("Fetch() expected error for 502, got nil")
	}
}
