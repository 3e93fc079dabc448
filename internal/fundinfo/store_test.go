package fundinfo

import (
	"context"
	"testing"
)

func TestNewStore_TableNameValidation(t *testing.T) {
	tests := []struct {
		table string
		ok    bool
	}{
		{"raw_pfund_info", true},
		{"", false},
		{"raw-pfund", false},
		{"x; DROP TABLE y", false},
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

func TestUpdateKeyed_Validation(t *testing.T) {
	store, err := NewStore(nil, "raw_pfund_info", nil)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	if err := store.UpdateKeyed(context.Background(), "bad column", map[int64]string{1: "x"}); err == nil {
		t.Error("UpdateKeyed() expected error for invalid column name, got nil")
	}

	// Empty value map is a no-op and must not touch the database (db is nil).
	if err := store.UpdateKeyed(context.Background(), "nav_date", nil); err != nil {
		t.Errorf("UpdateKeyed() with no values: %v", err)
	}
}
