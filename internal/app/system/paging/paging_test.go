package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int64
		wantOffset int64
	}{
		{"defaults", "/x", PageSize, 0},
		{"explicit", "/x?limit=25&offset=100", 25, 100},
		{"clamped limit", "/x?limit=9999", MaxPageSize, 0},
		{"invalid ignored", "/x?limit=abc&offset=-5", PageSize, 0},
		{"zero limit ignored", "/x?limit=0", PageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(httptest.NewRequest("GET", tt.url, nil))
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit: got %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestTrim(t *testing.T) {
	p := Page{Limit: 3}

	rows := []int{1, 2, 3, 4} // look-ahead fetched one extra
	if !Trim(&rows, p) {
		t.Error("expected hasNext=true when an extra row was fetched")
	}
	if len(rows) != 3 {
		t.Errorf("len after trim: got %d, want 3", len(rows))
	}

	rows = []int{1, 2}
	if Trim(&rows, p) {
		t.Error("expected hasNext=false for a short page")
	}
	if len(rows) != 2 {
		t.Errorf("len after trim: got %d, want 2", len(rows))
	}
}
