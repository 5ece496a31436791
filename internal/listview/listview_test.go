package listview

import (
	"testing"
	"time"
)

type item struct {
	Title     string
	CreatedAt time.Time
	Score     int64
}

func itemColumns() Columns[item] {
	return Columns[item]{
		"title":      func(a, b item) int { return CompareStringsFold(a.Title, b.Title) },
		"created_at": func(a, b item) int { return CompareTimes(a.CreatedAt, b.CreatedAt) },
		"score":      func(a, b item) int { return CompareInt64(a.Score, b.Score) },
	}
}

func titles(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestSortByTitleCaseInsensitive(t *testing.T) {
	items := []item{{Title: "Banana"}, {Title: "apple"}, {Title: "Cherry"}}
	SortBy(items, itemColumns(), "title", Ascending)

	got := titles(items)
	want := []string{"apple", "Banana", "Cherry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByCreatedAtChronological(t *testing.T) {
	t1, _ := time.Parse(time.RFC3339, "2024-12-01T00:00:00Z")
	t2, _ := time.Parse(time.RFC3339, "2024-12-02T00:00:00Z")
	items := []item{{Title: "later", CreatedAt: t2}, {Title: "earlier", CreatedAt: t1}}

	SortBy(items, itemColumns(), "created_at", Ascending)
	if items[0].Title != "earlier" {
		t.Fatalf("ascending order wrong: %v", titles(items))
	}

	SortBy(items, itemColumns(), "created_at", Descending)
	if items[0].Title != "later" {
		t.Fatalf("descending order wrong: %v", titles(items))
	}
}

func TestSortByUnknownColumnLeavesOrder(t *testing.T) {
	items := []item{{Title: "b"}, {Title: "a"}}
	SortBy(items, itemColumns(), "nope", Ascending)
	if items[0].Title != "b" {
		t.Fatalf("unknown column should not reorder: %v", titles(items))
	}
}

func TestSortStability(t *testing.T) {
	items := []item{
		{Title: "x", Score: 1},
		{Title: "y", Score: 1},
		{Title: "z", Score: 0},
	}
	SortBy(items, itemColumns(), "score", Ascending)

	got := titles(items)
	want := []string{"z", "x", "y"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ties must keep relative order: %v, want %v", got, want)
		}
	}
}

func TestSorterRequestToggle(t *testing.T) {
	s := NewSorter(itemColumns())

	s.Request("title")
	if s.Key != "title" || s.Dir != Ascending {
		t.Fatalf("new key should start ascending, got %s/%s", s.Key, s.Dir)
	}
	s.Request("title")
	if s.Dir != Descending {
		t.Fatalf("same key should flip to descending, got %s", s.Dir)
	}
	s.Request("title")
	if s.Dir != Ascending {
		t.Fatalf("same key should flip back to ascending, got %s", s.Dir)
	}
	s.Request("created_at")
	if s.Key != "created_at" || s.Dir != Ascending {
		t.Fatalf("switching keys should reset to ascending, got %s/%s", s.Key, s.Dir)
	}
}

func TestSorterApplyAfterRefetch(t *testing.T) {
	s := NewSorter(itemColumns())
	s.Request("title")

	first := []item{{Title: "b"}, {Title: "a"}}
	s.Apply(first)
	if first[0].Title != "a" {
		t.Fatalf("first apply wrong: %v", titles(first))
	}

	// A fresh fetch keeps the active key and direction.
	second := []item{{Title: "d"}, {Title: "c"}}
	s.Apply(second)
	if second[0].Title != "c" {
		t.Fatalf("re-applied sort wrong: %v", titles(second))
	}
}
