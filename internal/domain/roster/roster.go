// Package roster holds the attendee table a session verifies scans against,
// together with the column-role mapping that tells the engine which columns
// carry identity.
package roster

import "fmt"

// Record is one roster row keyed by column name. Values are scalars
// (string, number, bool) or nil when the cell is empty. A Record is never
// modified after its roster has been built.
type Record map[string]any

// Value returns the raw cell value for column, or nil when absent.
func (r Record) Value(column string) any {
	if r == nil || column == "" {
		return nil
	}
	return r[column]
}

// Get returns the canonical string value for column. An empty column name
// or a missing cell yields "".
func (r Record) Get(column string) string {
	return Canonical(r.Value(column))
}

// Roster is an ordered, immutable list of records sharing one header.
type Roster struct {
	headers []string
	records []Record
}

// New builds a roster from a header row and its records. Records are copied
// so later changes to the caller's maps do not leak into the roster.
func New(headers []string, records []Record) (*Roster, error) {
	if len(headers) == 0 {
		return nil, ErrNoColumns
	}
	if len(records) == 0 {
		return nil, ErrEmptyRoster
	}

	index := make(map[string]struct{}, len(headers))
	hs := make([]string, 0, len(headers))
	for _, h := range headers {
		if h == "" {
			continue
		}
		if _, dup := index[h]; dup {
			return nil, fmt.Errorf("column %q: %w", h, ErrDuplicateColumn)
		}
		index[h] = struct{}{}
		hs = append(hs, h)
	}
	if len(hs) == 0 {
		return nil, ErrNoColumns
	}

	rs := make([]Record, len(records))
	for i, rec := range records {
		cp := make(Record, len(hs))
		for _, h := range hs {
			if v, ok := rec[h]; ok && v != nil {
				cp[h] = v
			}
		}
		rs[i] = cp
	}

	return &Roster{headers: hs, records: rs}, nil
}

// Headers returns a copy of the column names in sheet order.
func (r *Roster) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

// Len returns the number of records.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// At returns the i-th record. The record must be treated as read-only.
func (r *Roster) At(i int) Record {
	return r.records[i]
}

// Records returns the records in roster order. The slice is a copy; the
// records themselves are shared and must be treated as read-only.
func (r *Roster) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
