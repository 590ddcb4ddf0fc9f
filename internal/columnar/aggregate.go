// Package columnar transposes row-oriented analytics events into a
// column-oriented aggregate and back. All operations return new values;
// arguments are never mutated, so a shared Aggregate is safe for
// concurrent readers.
package columnar

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Row is a schemaless event row. A key missing from the map means the
// field was absent on the source row; a key present with a nil value is
// a stored null. The two are kept distinct through every transform.
type Row map[string]any

// NormalizeFunc reshapes a row before encoding or after inflating,
// e.g. flattening a nested payload into top-level fields.
type NormalizeFunc func(Row) Row

// Value is one cell of a column. The zero Value is the absent marker;
// a present Value may still carry nil Data (stored null).
type Value struct {
	Present bool
	Data    any
}

type column []Value

// Aggregate maps field names to position-aligned columns. Position i of
// every column refers to the same source row. Columns are only reachable
// through whole-aggregate operations, never mutated in place.
type Aggregate struct {
	keys []string // first-seen order
	cols map[string]column
	rows int
}

// ErrUnknownKey is returned by RemoveByKey for a key the aggregate does
// not carry.
var ErrUnknownKey = errors.New("columnar: unknown aggregate key")

// AsymmetryError reports a column whose length disagrees with the rest
// of the aggregate. It signals a codec bug or corrupted storage and is
// never recoverable locally.
type AsymmetryError struct {
	Key  string
	Want int
	Got  int
}

func (e *AsymmetryError) Error() string {
	return fmt.Sprintf("columnar: column %q has %d rows, expected %d", e.Key, e.Got, e.Want)
}

func newAggregate() *Aggregate {
	return &Aggregate{cols: make(map[string]column)}
}

// ensureKey registers a key, backfilling absent cells for every row
// appended before the key was first seen.
func (a *Aggregate) ensureKey(k string) {
	if _, ok := a.cols[k]; ok {
		return
	}
	a.keys = append(a.keys, k)
	a.cols[k] = make(column, a.rows)
}

// Encode transposes rows into an Aggregate. Rows are processed in input
// order and that order becomes the column position order; the key set is
// the union of all row keys. An empty input yields an empty Aggregate.
func Encode(rows []Row, normalize NormalizeFunc) *Aggregate {
	a := newAggregate()
	for _, r := range rows {
		if normalize != nil {
			r = normalize(r)
		}
		for _, k := range sortedKeys(r) {
			a.ensureKey(k)
		}
		for _, k := range a.keys {
			if v, ok := r[k]; ok {
				a.cols[k] = append(a.cols[k], Value{Present: true, Data: v})
			} else {
				a.cols[k] = append(a.cols[k], Value{})
			}
		}
		a.rows++
	}
	return a
}

// Merge concatenates aggregates in input order. The result carries the
// union of all key sets; rows from an input lacking a key get absent
// padding at their positions, so every column in the result has length
// equal to the sum of the input row counts.
func Merge(aggs []*Aggregate) *Aggregate {
	out := newAggregate()
	for _, in := range aggs {
		if in == nil {
			continue
		}
		for _, k := range in.keys {
			out.ensureKey(k)
		}
		for _, k := range out.keys {
			if src, ok := in.cols[k]; ok {
				out.cols[k] = append(out.cols[k], src...)
			} else {
				out.cols[k] = append(out.cols[k], make(column, in.rows)...)
			}
		}
		out.rows += in.rows
	}
	return out
}

// Inflate rebuilds the original rows, one per column position, omitting
// absent cells. It returns an *AsymmetryError if any column's length
// disagrees with the aggregate's row count; nothing is truncated or
// padded to paper over that.
func (a *Aggregate) Inflate(denormalize NormalizeFunc) ([]Row, error) {
	if err := a.checkAligned(); err != nil {
		return nil, err
	}
	rows := make([]Row, a.rows)
	for i := 0; i < a.rows; i++ {
		r := make(Row)
		for _, k := range a.keys {
			if cell := a.cols[k][i]; cell.Present {
				r[k] = cell.Data
			}
		}
		if denormalize != nil {
			r = denormalize(r)
		}
		rows[i] = r
	}
	return rows, nil
}

// RemoveByKey returns a new Aggregate with every row position removed
// whose value in the named column is a member of drop. Remaining
// positions keep their relative order. Removing values that never occur
// returns an aggregate equal to the input.
func (a *Aggregate) RemoveByKey(key string, drop []any) (*Aggregate, error) {
	col, ok := a.cols[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := a.checkAligned(); err != nil {
		return nil, err
	}
	m := newMatcher(drop)
	keep := make([]bool, a.rows)
	kept := 0
	for i, cell := range col {
		if !m.matches(cell) {
			keep[i] = true
			kept++
		}
	}
	out := newAggregate()
	out.keys = append(out.keys, a.keys...)
	out.rows = kept
	for _, k := range a.keys {
		dst := make(column, 0, kept)
		for i, cell := range a.cols[k] {
			if keep[i] {
				dst = append(dst, cell)
			}
		}
		out.cols[k] = dst
	}
	return out, nil
}

// Len returns the number of rows the aggregate holds.
func (a *Aggregate) Len() int {
	return a.rows
}

// Keys returns the field names in first-seen order.
func (a *Aggregate) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Column returns a copy of the named column.
func (a *Aggregate) Column(key string) ([]Value, bool) {
	col, ok := a.cols[key]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(col))
	copy(out, col)
	return out, true
}

func (a *Aggregate) checkAligned() error {
	for _, k := range a.keys {
		if got := len(a.cols[k]); got != a.rows {
			return &AsymmetryError{Key: k, Want: a.rows, Got: got}
		}
	}
	return nil
}

// Go maps carry no key order, so keys discovered within a single row are
// registered in sorted order; across rows the first-seen order still wins.
func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matcher answers set membership for removal values. Comparable values
// go through a map lookup, anything else falls back to DeepEqual.
type matcher struct {
	set  map[any]struct{}
	rest []any
}

func newMatcher(drop []any) matcher {
	m := matcher{set: make(map[any]struct{}, len(drop))}
	for _, v := range drop {
		if isComparable(v) {
			m.set[v] = struct{}{}
		} else {
			m.rest = append(m.rest, v)
		}
	}
	return m
}

func (m matcher) matches(cell Value) bool {
	if !cell.Present {
		return false
	}
	if isComparable(cell.Data) {
		if _, ok := m.set[cell.Data]; ok {
			return true
		}
	}
	for _, v := range m.rest {
		if reflect.DeepEqual(cell.Data, v) {
			return true
		}
	}
	return false
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
