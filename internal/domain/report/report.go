// Package report folds a session's verification log back into its roster to
// produce the attendance table handed to exporters.
package report

import (
	"time"

	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/verify"
)

// Row is one roster record with its attendance outcome. Values line up with
// Table.Columns; roster cells keep their original type.
type Row struct {
	Values      []any
	Present     bool
	CheckedInAt time.Time
}

// Summary counts attendance.
type Summary struct {
	Total   int
	Present int
	Absent  int
}

// Table is the merged report.
type Table struct {
	Columns []string
	Rows    []Row
	Summary Summary
}

// Strings renders every cell in canonical string form.
func (t Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row.Values))
		for j, v := range row.Values {
			cells[j] = roster.Canonical(v)
		}
		out[i] = cells
	}
	return out
}

// CheckIns maps each identifier to its earliest SUCCESS timestamp. Entries
// without a record or with an empty id are ignored.
func CheckIns(entries []verify.Entry, m roster.ColumnMapping) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, e := range entries {
		if e.Status != verify.StatusSuccess || e.Record == nil {
			continue
		}
		id := e.Record.Get(m.ID)
		if id == "" {
			continue
		}
		if prev, ok := out[id]; !ok || e.Timestamp.Before(prev) {
			out[id] = e.Timestamp
		}
	}
	return out
}

// Build merges entries into r. Rows follow roster order; a row is present
// iff its id appears in a SUCCESS entry. The appended columns replace
// roster columns of the same name instead of duplicating them.
func Build(r *roster.Roster, entries []verify.Entry, m roster.ColumnMapping, opts ...Option) Table {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}

	headers := r.Headers()
	columns := make([]string, 0, len(headers)+2)
	statusIdx, timeIdx := -1, -1
	for i, h := range headers {
		switch h {
		case s.statusColumn:
			statusIdx = i
		case s.timeColumn:
			timeIdx = i
		}
		columns = append(columns, h)
	}
	if statusIdx < 0 {
		statusIdx = len(columns)
		columns = append(columns, s.statusColumn)
	}
	if timeIdx < 0 {
		timeIdx = len(columns)
		columns = append(columns, s.timeColumn)
	}

	checkIns := CheckIns(entries, m)
	t := Table{Columns: columns, Rows: make([]Row, r.Len())}

	for i := 0; i < r.Len(); i++ {
		rec := r.At(i)
		values := make([]any, len(columns))
		for j, h := range headers {
			values[j] = rec.Value(h)
		}

		row := Row{}
		if id := rec.Get(m.ID); id != "" {
			row.CheckedInAt, row.Present = checkIns[id]
		}
		if row.Present {
			values[statusIdx] = s.present
			values[timeIdx] = row.CheckedInAt.In(s.location).Format(s.timeLayout)
			t.Summary.Present++
		} else {
			values[statusIdx] = s.absent
			values[timeIdx] = ""
			t.Summary.Absent++
		}
		row.Values = values
		t.Rows[i] = row
	}
	t.Summary.Total = len(t.Rows)

	return t
}
