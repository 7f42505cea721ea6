package core

// ExtraLink is an optional secondary navigation link attached to a result,
// such as the region view accompanying a gene hit.
type ExtraLink struct {
	Label string `json:"label"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Result is the canonical, source-agnostic search hit. It is the only shape
// exposed outside the search core.
type Result struct {
	Index       string     `json:"index"`
	Subtype     string     `json:"subtype"`
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Extra       *ExtraLink `json:"extra,omitempty"`
	Description string     `json:"description"`
	Species     string     `json:"species"`
}

// SourceHits is one source's contribution to a result set: the fetched rows
// normalized into results, plus the total match count reported by the count
// queries. Matched can exceed len(Results) once the fetch budget runs out.
type SourceHits struct {
	Results []Result `json:"results"`
	Matched int      `json:"matched"`
}

// ResultSet holds per-source hits for one search request, keyed by source
// name with deterministic entry order. It is created fresh per request and
// discarded after the response is rendered; nothing here is persisted.
//
// A set with no entries at all means no search was performed (blank query),
// which is distinct from entries holding zero results.
type ResultSet struct {
	Query   string
	Species string

	order []string
	hits  map[string]*SourceHits
}

// NewResultSet returns an empty result set for the given request.
func NewResultSet(query, species string) *ResultSet {
	return &ResultSet{
		Query:   query,
		Species: species,
		hits:    make(map[string]*SourceHits),
	}
}

// Add records a source's hits. Re-adding a source replaces its entry without
// changing its position.
func (rs *ResultSet) Add(source string, hits *SourceHits) {
	if hits == nil {
		hits = &SourceHits{}
	}
	if _, ok := rs.hits[source]; !ok {
		rs.order = append(rs.order, source)
	}
	rs.hits[source] = hits
}

// Hits returns the entry for a source.
func (rs *ResultSet) Hits(source string) (*SourceHits, bool) {
	h, ok := rs.hits[source]
	return h, ok
}

// Sources returns the recorded source names in insertion order.
func (rs *ResultSet) Sources() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// Empty reports whether the set has no entries, i.e. no handler ran.
func (rs *ResultSet) Empty() bool {
	return len(rs.order) == 0
}

// TotalMatched sums every source's match count.
func (rs *ResultSet) TotalMatched() int {
	total := 0
	for _, h := range rs.hits {
		total += h.Matched
	}
	return total
}

// TotalFetched sums the results actually returned across sources.
func (rs *ResultSet) TotalFetched() int {
	total := 0
	for _, h := range rs.hits {
		total += len(h.Results)
	}
	return total
}
