package pagination

import "testing"

func TestNormalize(t *testing.T) {
	got := Normalize(Params{Page: -3, PerPage: 0})
	if got.Page != 1 || got.PerPage != DefaultPerPage {
		t.Fatalf("unexpected normalized params %+v", got)
	}
	got = Normalize(Params{Page: 2, PerPage: 1000})
	if got.PerPage != MaxPerPage {
		t.Fatalf("expected per page capped at %d, got %d", MaxPerPage, got.PerPage)
	}
}

func TestNewWindow(t *testing.T) {
	cases := []struct {
		name     string
		params   Params
		total    int64
		items    int
		from, to int64
		lastPage int
	}{
		{name: "empty", params: Params{Page: 1, PerPage: 24}, total: 0, items: 0, from: 0, to: 0, lastPage: 1},
		{name: "single partial page", params: Params{Page: 1, PerPage: 24}, total: 5, items: 5, from: 1, to: 5, lastPage: 1},
		{name: "middle page", params: Params{Page: 2, PerPage: 24}, total: 60, items: 24, from: 25, to: 48, lastPage: 3},
		{name: "last page", params: Params{Page: 3, PerPage: 24}, total: 60, items: 12, from: 49, to: 60, lastPage: 3},
		{name: "past the end", params: Params{Page: 9, PerPage: 24}, total: 60, items: 0, from: 0, to: 0, lastPage: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWindow(tc.params, tc.total, tc.items)
			if w.From != tc.from || w.To != tc.to {
				t.Fatalf("expected from/to %d/%d, got %d/%d", tc.from, tc.to, w.From, w.To)
			}
			if w.LastPage != tc.lastPage {
				t.Fatalf("expected last page %d, got %d", tc.lastPage, w.LastPage)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if off := (Params{Page: 3, PerPage: 20}).Offset(); off != 40 {
		t.Fatalf("expected offset 40, got %d", off)
	}
	if off := (Params{}).Offset(); off != 0 {
		t.Fatalf("expected offset 0, got %d", off)
	}
}
