package sink

import "testing"

func TestNewPostgres_TableNameValidation(t *testing.T) {
	tests := []struct {
		table string
		ok    bool
	}{
		{"bench_basic_data", true},
		{"data2024", true},
		{"", false},
		{"bad name", false},
		{"x; DELETE FROM y", false},
	}

	for _, tt := range tests {
		_, err := NewPostgres(nil, tt.table, nil)
		if tt.ok && err != nil {
			t.Errorf("NewPostgres(%q) unexpected error: %v", tt.table, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("NewPostgres(%q) expected error, got nil", tt.table)
		}
	}
}
