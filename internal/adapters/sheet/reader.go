// Package sheet reads rosters from and writes attendance reports to xlsx
// workbooks.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/checkin/internal/domain/roster"
)

// Loaded is a roster read from a workbook together with where it came from.
type Loaded struct {
	Sheet  string
	Roster *roster.Roster
}

// Sheets lists the worksheet names of the workbook in r.
func Sheets(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	return f.GetSheetList(), nil
}

// ReadRoster parses the named sheet, or the first sheet when name is empty.
// The first row is the header; blank header cells are skipped and repeated
// names get _1, _2 suffixes. Fully blank rows are skipped and empty cells
// are left out of the record.
func ReadRoster(r io.Reader, name string) (Loaded, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readWorkbook(f, name)
}

// ReadRosterFile is ReadRoster over a file on disk.
func ReadRosterFile(path, name string) (Loaded, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return readWorkbook(f, name)
}

func readWorkbook(f *excelize.File, name string) (Loaded, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Loaded{}, ErrNoSheets
	}
	if name == "" {
		name = sheets[0]
	} else if !contains(sheets, name) {
		return Loaded{}, fmt.Errorf("%q: %w", name, ErrSheetNotFound)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	headerRow := -1
	for i, row := range rows {
		if !blank(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return Loaded{}, ErrNoHeader
	}

	columns := headerColumns(rows[headerRow])
	headers := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != "" {
			headers = append(headers, c)
		}
	}

	var records []roster.Record
	for _, row := range rows[headerRow+1:] {
		if blank(row) {
			continue
		}
		rec := make(roster.Record, len(headers))
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				rec[columns[i]] = v
			}
		}
		records = append(records, rec)
	}

	rs, err := roster.New(headers, records)
	if err != nil {
		return Loaded{}, fmt.Errorf("sheet %q: %w", name, err)
	}

	return Loaded{Sheet: name, Roster: rs}, nil
}

// headerColumns maps each cell position to its column name. Blank cells map
// to "" and repeated names are suffixed so every name is unique.
func headerColumns(row []string) []string {
	out := make([]string, len(row))
	used := make(map[string]struct{}, len(row))
	for i, cell := range row {
		h := strings.TrimSpace(cell)
		if h == "" {
			continue
		}
		name := h
		for n := 1; ; n++ {
			if _, dup := used[name]; !dup {
				break
			}
			name = h + "_" + strconv.Itoa(n)
		}
		used[name] = struct{}{}
		out[i] = name
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
