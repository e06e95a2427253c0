package sheet

import "errors"

var (
	// ErrNoSheets is returned when a workbook has no worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")
	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrNoHeader is returned when the sheet has no non-blank header row.
	ErrNoHeader = errors.New("sheet has no header row")
)
