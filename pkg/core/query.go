package core

import "fmt"

// Row is one raw result row fetched by a source query. Fields are positional
// and their meaning is fixed by the source that declared the query.
type Row []string

// Field returns the i-th column, or "" when the row is shorter.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Query is a static count/fetch template pair bound to one logical database.
// Plain templates carry exactly one %s slot, filled with the operator's
// comparator fragment (`= ?` or `LIKE ?`); full-text templates instead use
// the engine's native `MATCH ?` binding. Fetch templates end in `LIMIT ?`.
type Query struct {
	Database string
	Count    string
	Fetch    string
	FullText bool
}

// CountSQL renders the counting statement for op.
func (q Query) CountSQL(op Operator) string {
	if q.FullText {
		return q.Count
	}
	return fmt.Sprintf(q.Count, op.SQL())
}

// FetchSQL renders the fetching statement for op.
func (q Query) FetchSQL(op Operator) string {
	if q.FullText {
		return q.Fetch
	}
	return fmt.Sprintf(q.Fetch, op.SQL())
}

// Arg returns the bind argument carrying the term value for this query.
func (q Query) Arg(t Term) any {
	if q.FullText {
		return t.MatchValue()
	}
	return t.Value
}
