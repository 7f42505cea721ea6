package dispatch

// Budget is the shared row allowance for one source handler invocation. It is
// spent by match count, not by rows fetched: once cumulative matches exceed
// the allowance the balance goes negative and fetching stops, while counting
// continues so the total reported to the user stays accurate.
type Budget struct {
	remaining int
}

// NewBudget returns a budget allowing up to n fetched rows.
func NewBudget(n int) *Budget {
	return &Budget{remaining: n}
}

// Remaining returns the current balance, which may be negative.
func (b *Budget) Remaining() int {
	return b.remaining
}

// FetchLimit returns how many rows to fetch for a query that matched n rows:
// the smaller of the balance and n, clamped at zero. The clamp matters; the
// balance routinely goes negative and a negative limit must never reach SQL.
func (b *Budget) FetchLimit(matched int) int {
	limit := b.remaining
	if matched < limit {
		limit = matched
	}
	if limit < 0 {
		limit = 0
	}
	return limit
}

// Spend subtracts a query's full match count from the balance.
func (b *Budget) Spend(matched int) {
	b.remaining -= matched
}
