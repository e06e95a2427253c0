package roster

import "strings"

// Role names a semantic slot a roster column can fill.
type Role string

// Roles understood by the engine.
const (
	RoleID      Role = "id"
	RoleName    Role = "name"
	RoleEmail   Role = "email"
	RoleTeam    Role = "team"
	RoleEvent   Role = "event"
	RolePayment Role = "payment"
)

// Roles lists every role in display order.
var Roles = []Role{RoleID, RoleName, RoleEmail, RoleTeam, RoleEvent, RolePayment}

// ColumnMapping tells the engine which roster column plays each role. An
// empty field means the role is absent from the roster.
type ColumnMapping struct {
	ID      string `json:"id" koanf:"id_column"`
	Name    string `json:"name" koanf:"name_column"`
	Email   string `json:"email" koanf:"email_column"`
	Team    string `json:"team" koanf:"team_column"`
	Event   string `json:"event" koanf:"event_column"`
	Payment string `json:"payment" koanf:"payment_column"`
}

// Column returns the column mapped to role, or "".
func (m ColumnMapping) Column(role Role) string {
	switch role {
	case RoleID:
		return m.ID
	case RoleName:
		return m.Name
	case RoleEmail:
		return m.Email
	case RoleTeam:
		return m.Team
	case RoleEvent:
		return m.Event
	case RolePayment:
		return m.Payment
	}
	return ""
}

// With returns a copy of m with role mapped to column.
func (m ColumnMapping) With(role Role, column string) ColumnMapping {
	switch role {
	case RoleID:
		m.ID = column
	case RoleName:
		m.Name = column
	case RoleEmail:
		m.Email = column
	case RoleTeam:
		m.Team = column
	case RoleEvent:
		m.Event = column
	case RolePayment:
		m.Payment = column
	}
	return m
}

// IsZero reports whether no role is mapped.
func (m ColumnMapping) IsZero() bool {
	return m == ColumnMapping{}
}

// Sanitize blanks every role whose column is not one of headers. Column
// names are trimmed first.
func (m ColumnMapping) Sanitize(headers []string) ColumnMapping {
	known := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		known[h] = struct{}{}
	}
	out := ColumnMapping{}
	for _, role := range Roles {
		col := strings.TrimSpace(m.Column(role))
		if _, ok := known[col]; ok && col != "" {
			out = out.With(role, col)
		}
	}
	return out
}

// SuggestMapping guesses column roles from header names alone: the first
// column is the identifier, the second the name, and the remaining roles
// go to the first header that mentions them.
func SuggestMapping(headers []string) ColumnMapping {
	m := ColumnMapping{}
	if len(headers) == 0 {
		return m
	}
	m.ID = headers[0]
	m.Name = headers[0]
	if len(headers) > 1 && headers[1] != "" {
		m.Name = headers[1]
	}
	m.Email = firstContaining(headers, "email")
	m.Team = firstContaining(headers, "team")
	m.Event = firstContaining(headers, "event")
	m.Payment = firstContaining(headers, "payment", "status")
	return m
}

// MergeMapping keeps each proposed column that exists in headers and falls
// back to the fallback column for the rest. This is how externally
// suggested mappings are made safe before use.
func MergeMapping(proposed, fallback ColumnMapping, headers []string) ColumnMapping {
	valid := proposed.Sanitize(headers)
	safeFallback := fallback.Sanitize(headers)
	out := ColumnMapping{}
	for _, role := range Roles {
		col := valid.Column(role)
		if col == "" {
			col = safeFallback.Column(role)
		}
		out = out.With(role, col)
	}
	return out
}

func firstContaining(headers []string, words ...string) string {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return h
			}
		}
	}
	return ""
}
