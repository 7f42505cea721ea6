// Package dispatch executes a source's query templates against its backing
// databases, pairing every template with every search term and applying the
// shared fetch budget. All backing-store failures are soft: an unavailable
// database or a failing statement costs that pair its matches, never the
// whole search.
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/log"
)

// Dispatcher runs count-then-fetch rounds with a per-statement timeout.
type Dispatcher struct {
	timeout time.Duration
}

// New returns a dispatcher bounding each statement by timeout; zero or
// negative means 5s.
func New(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{timeout: timeout}
}

// Run executes the queries of one source against conns. Pairs run in
// declared order: every query template in turn, each against every term.
// Per pair it counts matches first, then fetches up to the budget's limit.
// The budget is spent by match count even when the fetch is skipped, so
// totalMatched keeps growing after the budget runs out.
//
// Returned rows accumulate in pair order. totalMatched is the sum of counts
// over all pairs that completed; a pair whose count or fetch fails
// contributes nothing.
func (d *Dispatcher) Run(ctx context.Context, source string, conns core.ConnectionProvider, queries []core.Query, terms []core.Term, budget *Budget) ([]core.Row, int) {
	logger := log.ForSource(source)

	var rows []core.Row
	totalMatched := 0

	for _, q := range queries {
		handle, err := conns.Connection(q.Database)
		if err != nil {
			if errors.Is(err, core.ErrUnavailable) {
				logger.Debugf("database %s unavailable, skipping", q.Database)
			} else {
				logger.Warnf("database %s: %v", q.Database, err)
			}
			continue
		}

		for _, term := range terms {
			matched, err := d.count(ctx, handle, q, term)
			if err != nil {
				logger.Errorf("counting %s matches on %s: %v", term.Op, q.Database, err)
				continue
			}
			if matched == 0 {
				continue
			}

			limit := budget.FetchLimit(matched)
			var fetched []core.Row
			if limit > 0 {
				fetched, err = d.fetch(ctx, handle, q, term, limit)
				if err != nil {
					logger.Errorf("fetching %s matches on %s: %v", term.Op, q.Database, err)
					continue
				}
			}

			totalMatched += matched
			budget.Spend(matched)
			rows = append(rows, fetched...)

			logger.Debugf("%s on %s: %d matched, %d fetched, budget %d",
				term.Op, q.Database, matched, len(fetched), budget.Remaining())
		}
	}

	return rows, totalMatched
}

func (d *Dispatcher) count(ctx context.Context, handle *sql.DB, q core.Query, term core.Term) (int, error) {
	qctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var matched int
	if err := handle.QueryRowContext(qctx, q.CountSQL(term.Op), q.Arg(term)).Scan(&matched); err != nil {
		return 0, err
	}
	return matched, nil
}

func (d *Dispatcher) fetch(ctx context.Context, handle *sql.DB, q core.Query, term core.Term, limit int) ([]core.Row, error) {
	qctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	rows, err := handle.QueryContext(qctx, q.FetchSQL(term.Op), q.Arg(term), limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.ForService("dispatch").Warnf("closing rows: %v", err)
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []core.Row
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scanArgs := make([]any, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
