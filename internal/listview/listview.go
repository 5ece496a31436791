// Package listview provides stable single-column sorting for fetched
// collections. Each view declares a comparator table keyed by column name;
// requesting the same column again flips the direction, a new column always
// starts ascending.
package listview

import (
	"sort"
	"strings"
	"time"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Comparator reports the natural order of a pair: negative when a sorts
// before b, zero when the pair is tied. Ties keep their relative order.
type Comparator[T any] func(a, b T) int

type Columns[T any] map[string]Comparator[T]

type Sorter[T any] struct {
	columns Columns[T]
	Key     string
	Dir     Direction
}

func NewSorter[T any](columns Columns[T]) *Sorter[T] {
	return &Sorter[T]{columns: columns, Dir: Ascending}
}

// Request selects the sort column. Re-requesting the active column toggles
// the direction; switching columns resets to ascending.
func (s *Sorter[T]) Request(key string) {
	if key == s.Key {
		if s.Dir == Ascending {
			s.Dir = Descending
		} else {
			s.Dir = Ascending
		}
		return
	}
	s.Key = key
	s.Dir = Ascending
}

// Apply sorts items in place by the current column and direction. Unknown
// columns leave the slice untouched.
func (s *Sorter[T]) Apply(items []T) {
	SortBy(items, s.columns, s.Key, s.Dir)
}

func SortBy[T any](items []T, columns Columns[T], key string, dir Direction) {
	cmp, ok := columns[key]
	if !ok {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
}

func CompareStringsFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func CompareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func CompareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func CompareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
