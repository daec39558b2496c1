package dto

import "testing"

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestListQueryNormalize(t *testing.T) {
	q := ListQuery{}
	q.Normalize()
	if q.Page != 1 || q.Limit != 10 {
		t.Fatalf("defaults = %d/%d, want 1/10", q.Page, q.Limit)
	}

	q = ListQuery{Page: 3, Limit: 500}
	q.Normalize()
	if q.Limit != MaxLimit {
		t.Fatalf("limit = %d, want clamp to %d", q.Limit, MaxLimit)
	}
	if q.Offset() != 200 {
		t.Fatalf("offset = %d, want 200", q.Offset())
	}
}

func TestPageEnvelope(t *testing.T) {
	p := NewPage[string](nil, 25, 3, 10)
	env := p.Envelope("devices")

	items, ok := env["devices"].([]string)
	if !ok || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", env["devices"])
	}
	if env["totalPages"] != 3 {
		t.Fatalf("totalPages = %v, want 3", env["totalPages"])
	}
}
