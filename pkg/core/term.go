package core

import "strings"

// Operator selects how a term is compared against an indexed column. It is a
// closed choice between two constant comparator fragments; term values are
// always bound as parameters, never spliced into statement text.
type Operator int

const (
	// OpExact compares with equality.
	OpExact Operator = iota
	// OpPrefix compares with LIKE; the term value carries the % pattern.
	OpPrefix
)

// String returns the operator name used in logs.
func (o Operator) String() string {
	if o == OpPrefix {
		return "prefix"
	}
	return "exact"
}

// SQL returns the comparator fragment with its bind placeholder.
func (o Operator) SQL() string {
	if o == OpPrefix {
		return "LIKE ?"
	}
	return "= ?"
}

// Term is one tokenized search word.
type Term struct {
	Op    Operator
	Value string
}

// MatchValue renders the term for a full-text MATCH placeholder: a quoted
// phrase, with a trailing * for prefix terms.
func (t Term) MatchValue() string {
	base := t.Value
	if t.Op == OpPrefix {
		base = strings.TrimSuffix(base, "%")
	}
	quoted := `"` + strings.ReplaceAll(base, `"`, `""`) + `"`
	if t.Op == OpPrefix {
		return quoted + "*"
	}
	return quoted
}

// Tokenize splits a raw query on whitespace runs into ordered terms. A word
// ending in one or more * becomes a prefix term with the whole trailing
// wildcard run folded into a single %; anything else matches exactly. A blank
// query yields no terms, which callers must treat as "no search performed".
func Tokenize(raw string) []Term {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}

	terms := make([]Term, 0, len(fields))
	for _, word := range fields {
		if strings.HasSuffix(word, "*") {
			base := strings.TrimRight(word, "*")
			terms = append(terms, Term{Op: OpPrefix, Value: base + "%"})
			continue
		}
		terms = append(terms, Term{Op: OpExact, Value: word})
	}
	return terms
}
