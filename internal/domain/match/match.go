// Package match resolves decoded scanner text to at most one roster record.
//
// Strategies run in a fixed priority and the first success wins: exact id,
// exact email, then a tokenized fallback over tab, pipe or comma separated
// payloads (ids first, then email-looking tokens).
package match

import (
	"strings"

	"github.com/okian/checkin/internal/domain/roster"
)

// Strategy names the rule that produced a match.
type Strategy string

// Strategies in priority order.
const (
	StrategyNone       Strategy = ""
	StrategyID         Strategy = "id"
	StrategyEmail      Strategy = "email"
	StrategyTokenID    Strategy = "token_id"
	StrategyTokenEmail Strategy = "token_email"
)

// delimiters are tried in order; only the first one present splits the text.
var delimiters = []string{"\t", "|", ","}

// Result is the outcome of a single match. Record is nil when nothing
// matched; Token is the piece of input that matched, or the whole trimmed
// input when nothing did.
type Result struct {
	Record   roster.Record
	Index    int
	Token    string
	Strategy Strategy
}

// Found reports whether a record was matched.
func (r Result) Found() bool {
	return r.Record != nil
}

// Matcher is built once per roster and mapping. It is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	roster  *roster.Roster
	mapping roster.ColumnMapping
	byID    map[string]int
	byEmail map[string]int
}

// New indexes r under mapping m. Unmapped roles produce empty indexes; the
// first record in roster order wins when values repeat.
func New(r *roster.Roster, m roster.ColumnMapping) *Matcher {
	mt := &Matcher{
		roster:  r,
		mapping: m,
		byID:    make(map[string]int, r.Len()),
		byEmail: make(map[string]int),
	}

	for i := 0; i < r.Len(); i++ {
		rec := r.At(i)
		if m.ID != "" {
			if id := rec.Get(m.ID); id != "" {
				if _, ok := mt.byID[id]; !ok {
					mt.byID[id] = i
				}
			}
		}
		if m.Email != "" {
			if email := strings.ToLower(rec.Get(m.Email)); email != "" {
				if _, ok := mt.byEmail[email]; !ok {
					mt.byEmail[email] = i
				}
			}
		}
	}

	return mt
}

// Mapping returns the mapping the matcher was built with.
func (mt *Matcher) Mapping() roster.ColumnMapping {
	return mt.mapping
}

// Match resolves text against the roster.
func (mt *Matcher) Match(text string) Result {
	trimmed := strings.TrimSpace(text)
	miss := Result{Index: -1, Token: trimmed}
	if trimmed == "" {
		return miss
	}

	if res, ok := mt.lookupID(trimmed, StrategyID); ok {
		return res
	}
	if res, ok := mt.lookupEmail(trimmed, StrategyEmail); ok {
		return res
	}

	tokens := split(trimmed)
	if tokens == nil {
		return miss
	}
	for _, tok := range tokens {
		if res, ok := mt.lookupID(tok, StrategyTokenID); ok {
			return res
		}
	}
	for _, tok := range tokens {
		if !strings.Contains(tok, "@") {
			continue
		}
		if res, ok := mt.lookupEmail(tok, StrategyTokenEmail); ok {
			return res
		}
	}

	return miss
}

func (mt *Matcher) lookupID(token string, s Strategy) (Result, bool) {
	i, ok := mt.byID[token]
	if !ok {
		return Result{}, false
	}
	return Result{Record: mt.roster.At(i), Index: i, Token: token, Strategy: s}, true
}

func (mt *Matcher) lookupEmail(token string, s Strategy) (Result, bool) {
	if mt.mapping.Email == "" {
		return Result{}, false
	}
	i, ok := mt.byEmail[strings.ToLower(token)]
	if !ok {
		return Result{}, false
	}
	return Result{Record: mt.roster.At(i), Index: i, Token: token, Strategy: s}, true
}

// split cuts text on the first delimiter it contains and returns the
// trimmed, non-empty tokens. It returns nil when no delimiter is present.
func split(text string) []string {
	for _, d := range delimiters {
		if !strings.Contains(text, d) {
			continue
		}
		parts := strings.Split(text, d)
		tokens := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tokens = append(tokens, p)
			}
		}
		return tokens
	}
	return nil
}
