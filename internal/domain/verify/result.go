package verify

import (
	"time"

	"github.com/okian/checkin/internal/domain/match"
	"github.com/okian/checkin/internal/domain/roster"
)

// Status is the terminal outcome of one scan.
type Status string

// Verification outcomes. None of them is an error.
const (
	StatusSuccess   Status = "SUCCESS"
	StatusNotFound  Status = "NOT_FOUND"
	StatusDuplicate Status = "DUPLICATE"
)

// Operator-facing messages.
const (
	MessageDuplicate = "Already verified."
	MessageNotFound  = "ID not found in list."
)

// Result is the decision for one scan. Record is set for SUCCESS and for
// DUPLICATE when the scan resolved to a roster identity.
type Result struct {
	Status       Status
	ScannedValue string // display form of the matched token, possibly truncated
	MatchedID    string // matched token, never truncated
	Key          string // dedup key the decision was made on
	Record       roster.Record
	Strategy     match.Strategy
	Message      string
	Timestamp    time.Time
}

// Entry is a Result as stored in the log.
type Entry struct {
	ID string
	Result
}
