package digest

import (
	"strconv"
	"strings"
	"testing"
)

func render(p Pagination) string {
	var parts []string
	for _, l := range p.Links {
		switch {
		case l.Gap:
			parts = append(parts, "...")
		case l.Current:
			parts = append(parts, "["+strconv.Itoa(l.Number)+"]")
		default:
			parts = append(parts, strconv.Itoa(l.Number))
		}
	}
	return strings.Join(parts, " ")
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		total, per, cur int
		want            string
		start, end      int
	}{
		{95, 10, 1, "[1] 2 3 ... 10", 1, 10},
		{95, 10, 5, "1 ... 3 4 [5] 6 7 ... 10", 41, 50},
		{95, 10, 10, "1 ... 8 9 [10]", 91, 95},
		{95, 10, 4, "1 2 3 [4] 5 6 ... 10", 31, 40},
		{30, 10, 2, "1 [2] 3", 11, 20},
		{95, 10, 99, "1 ... 8 9 [10]", 91, 95},
	}
	for _, tt := range tests {
		p := Paginate(tt.total, tt.per, tt.cur)
		if got := render(p); got != tt.want {
			t.Errorf("Paginate(%d,%d,%d) = %q, want %q", tt.total, tt.per, tt.cur, got, tt.want)
		}
		if p.StartItem != tt.start || p.EndItem != tt.end {
			t.Errorf("Paginate(%d,%d,%d) range = %d-%d, want %d-%d", tt.total, tt.per, tt.cur, p.StartItem, p.EndItem, tt.start, tt.end)
		}
	}
}

func TestPaginateHiddenForSinglePage(t *testing.T) {
	p := Paginate(7, 10, 1)
	if p.Visible() {
		t.Error("single page should be hidden")
	}
	if p.StartItem != 1 || p.EndItem != 7 {
		t.Errorf("range = %d-%d", p.StartItem, p.EndItem)
	}
	if Paginate(0, 10, 1).StartItem != 0 {
		t.Error("empty listing should have no range")
	}
}

func TestPaginateNavigation(t *testing.T) {
	p := Paginate(50, 10, 3)
	if !p.HasPrev() || !p.HasNext() || p.Prev() != 2 || p.Next() != 4 {
		t.Errorf("navigation wrong: %+v", p)
	}
	first := Paginate(50, 10, 1)
	if first.HasPrev() {
		t.Error("first page has no prev")
	}
}
