package roster

import "strings"

// PaymentInfo is the operator-facing reading of a payment cell.
type PaymentInfo struct {
	Paid  bool   `json:"paid"`
	Label string `json:"label"`
}

var paidWords = map[string]struct{}{
	"paid":      {},
	"done":      {},
	"yes":       {},
	"true":      {},
	"completed": {},
	"received":  {},
}

// Payment interprets a payment cell. Recognised "paid" words are reported
// as PAID; anything else is unpaid and keeps its own text, or PENDING when
// the cell is empty.
func Payment(v any) PaymentInfo {
	s := Canonical(v)
	if _, ok := paidWords[strings.ToLower(s)]; ok {
		return PaymentInfo{Paid: true, Label: "PAID"}
	}
	if s == "" {
		return PaymentInfo{Paid: false, Label: "PENDING"}
	}
	return PaymentInfo{Paid: false, Label: s}
}

// PaymentFor reads the payment role of rec. When the role is unmapped the
// attendee is not blocked: the result is paid with label N/A.
func PaymentFor(rec Record, m ColumnMapping) PaymentInfo {
	if m.Payment == "" {
		return PaymentInfo{Paid: true, Label: "N/A"}
	}
	return Payment(rec.Value(m.Payment))
}
