package sheet

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/checkin/internal/domain/report"
)

// ReportSheet is the worksheet name of exported reports.
const ReportSheet = "Attendance Report"

// ReportFileName derives the download name from the roster's file name.
func ReportFileName(source string) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "Roster"
	}
	return base + "_Attendance.xlsx"
}

// NewReport renders t into a fresh workbook. The caller closes it.
func NewReport(t report.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		_ = f.SetRowStyle(ReportSheet, 1, 1, headerStyle)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		values := make([]any, len(row.Values))
		copy(values, row.Values)
		if err := f.SetSheetRow(ReportSheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}

// WriteReport writes t as an xlsx workbook to w.
func WriteReport(w io.Writer, t report.Table) error {
	f, err := NewReport(t)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveReport writes t to path.
func SaveReport(path string, t report.Table) error {
	f, err := NewReport(t)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
