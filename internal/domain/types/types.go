// Package types contains the JSON views returned by the HTTP API
package types

import "time"

// Payment is the payment badge shown next to a verified attendee
type Payment struct {
	Paid  bool   `json:"paid"`
	Label string `json:"label"`
}

// Result is a verification outcome as shown to the operator
type Result struct {
	EntryID      string         `json:"entry_id"`
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	ScannedValue string         `json:"scanned_value"`
	MatchedID    string         `json:"matched_id"`
	Timestamp    time.Time      `json:"timestamp"`
	Name         string         `json:"name,omitempty"`
	Email        string         `json:"email,omitempty"`
	Team         string         `json:"team,omitempty"`
	Event        string         `json:"event,omitempty"`
	Payment      *Payment       `json:"payment,omitempty"`
	Record       map[string]any `json:"record,omitempty"`
}

// Roster summarizes a loaded roster
type Roster struct {
	FileName string   `json:"file_name"`
	Sheet    string   `json:"sheet,omitempty"`
	Columns  []string `json:"columns"`
	Records  int      `json:"records"`
	Mapping  Mapping  `json:"mapping"`
}

// Mapping is the column mapping wire form
type Mapping struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Team    string `json:"team"`
	Event   string `json:"event"`
	Payment string `json:"payment"`
}

// Summary counts attendance in a report
type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// Report is the merged attendance table
type Report struct {
	FileName string     `json:"file_name"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Summary  Summary    `json:"summary"`
}
