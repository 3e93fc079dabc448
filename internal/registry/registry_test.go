package registry

import "testing"

func TestNewStore_TableNameValidation(t *testing.T) {
	tests := []struct {
		table string
		ok    bool
	}{
		{"bench_info", true},
		{"BenchInfo2", true},
		{"_private", true},
		{"", false},
		{"bench-info", false},
		{"bench_info; DROP TABLE x", false},
		{"1table", false},
	}

	for _, tt := range tests {
		_, err := NewStore(nil, tt.table, nil)
		if tt.ok && err != nil {
			t.Errorf("NewStore(%q) unexpected error: %v", tt.table, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("NewStore(%q) expected error, got nil", tt.table)
		}
	}
}
