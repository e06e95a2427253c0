package api

import (
	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/types"
	"github.com/okian/checkin/internal/domain/verify"
)

// resultView renders a log entry with the attendee details the operator
// screen shows. Roles that are unmapped are left empty.
func resultView(e verify.Entry, m roster.ColumnMapping) types.Result {
	v := types.Result{
		EntryID:      e.ID,
		Status:       string(e.Status),
		Message:      e.Message,
		ScannedValue: e.ScannedValue,
		MatchedID:    e.MatchedID,
		Timestamp:    e.Timestamp,
	}
	if e.Record == nil {
		return v
	}

	v.Name = e.Record.Get(m.Name)
	v.Email = e.Record.Get(m.Email)
	v.Team = e.Record.Get(m.Team)
	v.Event = e.Record.Get(m.Event)

	p := roster.PaymentFor(e.Record, m)
	v.Payment = &types.Payment{Paid: p.Paid, Label: p.Label}

	v.Record = make(map[string]any, len(e.Record))
	for k, val := range e.Record {
		v.Record[k] = val
	}
	return v
}

func mappingView(m roster.ColumnMapping) types.Mapping {
	return types.Mapping{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Team:    m.Team,
		Event:   m.Event,
		Payment: m.Payment,
	}
}

func reportView(t report.Table, fileName string) types.Report {
	return types.Report{
		FileName: fileName,
		Columns:  t.Columns,
		Rows:     t.Strings(),
		Summary: types.Summary{
			Total:   t.Summary.Total,
			Present: t.Summary.Present,
			Absent:  t.Summary.Absent,
		},
	}
}
