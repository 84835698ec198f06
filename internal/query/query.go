// Package query implements search, filter, sort and pagination over one
// in-memory collection, parameterized by a per-entity Descriptor.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Request struct {
	Q       string
	Filters map[string]string
	Sort    string
	Page    int
	Limit   int
}

type Page[T any] struct {
	Items []T
	Total int
}

// Compare orders two records by one field, ascending.
type Compare[T any] func(a, b T) int

type Descriptor[T any] struct {
	// Search lists the text fields q is matched against.
	Search []func(T) string
	// Filters maps a filter name to the field it compares for equality.
	Filters map[string]func(T) string
	// Sorts maps a field name to its comparator; tokens are field_asc and
	// field_desc.
	Sorts       map[string]Compare[T]
	DefaultSort string
}

func ByText[T any](f func(T) string) Compare[T] {
	return func(a, b T) int { return strings.Compare(strings.ToLower(f(a)), strings.ToLower(f(b))) }
}

func ByNumber[T any, N cmp.Ordered](f func(T) N) Compare[T] {
	return func(a, b T) int { return cmp.Compare(f(a), f(b)) }
}

func ByTime[T any](f func(T) time.Time) Compare[T] {
	return func(a, b T) int { return f(a).Compare(f(b)) }
}

// Normalize clamps page and limit to their valid ranges.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	r.Q = strings.TrimSpace(r.Q)
	return r
}

// Run never modifies items.
func Run[T any](items []T, d Descriptor[T], req Request) Page[T] {
	req = req.Normalize()

	matched := make([]T, 0, len(items))
	for _, it := range items {
		if d.matchSearch(it, req.Q) && d.matchFilters(it, req.Filters) {
			matched = append(matched, it)
		}
	}

	token := req.Sort
	if token == "" {
		token = d.DefaultSort
	}
	if less, ok := d.comparator(token); ok {
		slices.SortStableFunc(matched, less)
	}

	total := len(matched)
	// compare page indexes before multiplying so huge pages cannot overflow
	if total == 0 || req.Page-1 > (total-1)/req.Limit {
		return Page[T]{Items: []T{}, Total: total}
	}
	start := (req.Page - 1) * req.Limit
	end := min(start+req.Limit, total)
	return Page[T]{Items: matched[start:end], Total: total}
}

func (d Descriptor[T]) matchSearch(it T, q string) bool {
	if q == "" {
		return true
	}
	needle := strings.ToLower(q)
	for _, field := range d.Search {
		if strings.Contains(strings.ToLower(field(it)), needle) {
			return true
		}
	}
	return false
}

func (d Descriptor[T]) matchFilters(it T, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		field, ok := d.Filters[name]
		if !ok {
			continue
		}
		if field(it) != want {
			return false
		}
	}
	return true
}

func (d Descriptor[T]) comparator(token string) (Compare[T], bool) {
	i := strings.LastIndexByte(token, '_')
	if i <= 0 {
		return nil, false
	}
	field, dir := token[:i], token[i+1:]
	base, ok := d.Sorts[field]
	if !ok {
		return nil, false
	}
	switch dir {
	case "asc":
		return base, true
	case "desc":
		return func(a, b T) int { return base(b, a) }, true
	}
	return nil, false
}

// Valid reports whether token is empty or a sort token d understands.
func (d Descriptor[T]) Valid(token string) bool {
	if token == "" {
		return true
	}
	_, ok := d.comparator(token)
	return ok
}
