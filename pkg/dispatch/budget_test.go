package dispatch

import "testing"

func TestBudgetFetchLimit(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		matched   int
		want      int
	}{
		{name: "matched below balance", remaining: 30, matched: 25, want: 25},
		{name: "matched above balance", remaining: 5, matched: 10, want: 5},
		{name: "exhausted balance", remaining: 0, matched: 10, want: 0},
		{name: "negative balance clamps to zero", remaining: -5, matched: 10, want: 0},
		{name: "zero matches", remaining: 30, matched: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBudget(tt.remaining)
			if got := b.FetchLimit(tt.matched); got != tt.want {
				t.Errorf("FetchLimit(%d) with balance %d = %d, want %d",
					tt.matched, tt.remaining, got, tt.want)
			}
		})
	}
}

func TestBudgetSpendGoesNegative(t *testing.T) {
	b := NewBudget(30)

	// first round: 25 matched, all of them fetchable
	if got := b.FetchLimit(25); got != 25 {
		t.Errorf("first FetchLimit = %d, want 25", got)
	}
	b.Spend(25)
	if b.Remaining() != 5 {
		t.Errorf("after first spend Remaining = %d, want 5", b.Remaining())
	}

	// second round: 10 matched, only 5 fetchable, full count spent
	if got := b.FetchLimit(10); got != 5 {
		t.Errorf("second FetchLimit = %d, want 5", got)
	}
	b.Spend(10)
	if b.Remaining() != -5 {
		t.Errorf("after second spend Remaining = %d, want -5", b.Remaining())
	}

	// third round: balance negative, nothing fetchable
	if got := b.FetchLimit(7); got != 0 {
		t.Errorf("third FetchLimit = %d, want 0", got)
	}
}
