package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okian/checkin/internal/domain/report"
	"github.com/okian/checkin/internal/domain/roster"
	"github.com/okian/checkin/internal/domain/verify"
)

// column is one console table column; numeric columns are right aligned.
type column struct {
	title   string
	numeric bool
}

var (
	logColumns = []column{
		{title: "#", numeric: true},
		{title: "Status"},
		{title: "Scanned"},
		{title: "Name"},
		{title: "Time"},
	}
	summaryColumns = []column{
		{title: "Outcome"},
		{title: "Count", numeric: true},
	}
)

// logTable renders the verification log, one row per entry.
func logTable(entries []verify.Entry, m roster.ColumnMapping, loc *time.Location, layout string) string {
	rows := make([]table.Row, 0, len(entries))
	for i, e := range entries {
		name := ""
		if e.Record != nil {
			name = e.Record.Get(m.Name)
		}
		rows = append(rows, table.Row{i + 1, string(e.Status), e.ScannedValue, name, e.Timestamp.In(loc).Format(layout)})
	}
	return render("Verification log", logColumns, rows, nil)
}

// summaryTable renders scan outcome counts followed by roster attendance.
// The footer is the number of scans replayed.
func summaryTable(entries []verify.Entry, t report.Table) string {
	counts := make(map[verify.Status]int, 3)
	for _, e := range entries {
		counts[e.Status]++
	}
	rows := []table.Row{
		{"Success", counts[verify.StatusSuccess]},
		{"Duplicate", counts[verify.StatusDuplicate]},
		{"Not found", counts[verify.StatusNotFound]},
		{report.DefaultPresent, t.Summary.Present},
		{report.DefaultAbsent, t.Summary.Absent},
	}
	return render("Summary", summaryColumns, rows, table.Row{"Scans", len(entries)})
}

func render(title string, cols []column, rows []table.Row, footer table.Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if c.numeric {
			configs[i].Align = text.AlignRight
			configs[i].AlignFooter = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	if footer != nil {
		tw.AppendFooter(footer)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
