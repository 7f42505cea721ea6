// Package monitor periodically probes the configured species databases so
// operators can see which backing stores a degraded search would skip. The
// serve command runs one monitor; its snapshot backs the status endpoint.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/log"
	"github.com/genomehub/unisearch/pkg/species"
)

// Status is the probe outcome for one (species, logical database) pair.
type Status struct {
	Species   string    `json:"species"`
	Database  string    `json:"database"`
	File      string    `json:"file"`
	Available bool      `json:"available"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Monitor probes database availability on a fixed interval.
type Monitor struct {
	provider *db.Provider
	registry *species.Registry
	interval time.Duration
	logger   *log.Logger

	mu       sync.RWMutex
	statuses map[string]Status
	lastRun  time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New builds a monitor over the given provider and species registry. A zero
// or negative interval falls back to 5 minutes.
func New(provider *db.Provider, registry *species.Registry, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Monitor{
		provider: provider,
		registry: registry,
		interval: interval,
		logger:   log.ForService("monitor"),
		statuses: make(map[string]Status),
		stopCh:   make(chan struct{}),
	}
}

// Start probes once immediately, then keeps probing on the interval until
// Stop is called or the context ends.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor is already running")
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.mu.Unlock()

	m.Probe(m.ctx)

	m.wg.Add(1)
	go m.run()

	m.logger.Infof("monitoring %d species every %v", m.registry.Len(), m.interval)
	return nil
}

func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Probe(m.ctx)
		}
	}
}

// Stop halts probing and waits for the probe goroutine to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.cancel()
	close(m.stopCh)
	m.running = false
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Infof("monitor stopped")
}

// IsRunning reports whether the probe loop is active.
func (m *Monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// Probe checks every configured (species, database) pair once and replaces
// the snapshot. Species with an explicit database list are probed on that
// list; the rest are probed on every known logical database.
func (m *Monitor) Probe(ctx context.Context) {
	now := time.Now()
	statuses := make(map[string]Status)

	for _, sp := range m.registry.All() {
		logicals := sp.Databases()
		if len(logicals) == 0 {
			logicals = db.Logicals()
		}

		for _, logical := range logicals {
			status := Status{
				Species:   sp.Name,
				Database:  logical,
				File:      sp.DatabaseFile(logical),
				CheckedAt: now,
			}

			if err := m.check(ctx, sp, logical); err != nil {
				status.Error = probeError(err)
				m.logger.Debugf("%s/%s unavailable: %v", sp.Name, logical, err)
			} else {
				status.Available = true
			}
			statuses[sp.Name+"/"+logical] = status
		}
	}

	m.mu.Lock()
	m.statuses = statuses
	m.lastRun = now
	m.mu.Unlock()
}

func (m *Monitor) check(ctx context.Context, sp *species.Species, logical string) error {
	database, err := m.provider.Get(sp, logical)
	if err != nil {
		return err
	}
	return database.Ping(ctx)
}

// probeError keeps the status message short: the sentinel reads better than
// the wrapped open-path detail.
func probeError(err error) string {
	if errors.Is(err, core.ErrUnavailable) {
		return core.ErrUnavailable.Error()
	}
	return err.Error()
}

// Snapshot returns the latest probe results ordered by species then
// database name.
func (m *Monitor) Snapshot() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, 0, len(m.statuses))
	for _, status := range m.statuses {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Species != out[j].Species {
			return out[i].Species < out[j].Species
		}
		return out[i].Database < out[j].Database
	})
	return out
}

// LastRun returns when the snapshot was last refreshed, zero before the
// first probe.
func (m *Monitor) LastRun() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRun
}

// Available counts the pairs currently reachable.
func (m *Monitor) Available() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, status := range m.statuses {
		if status.Available {
			n++
		}
	}
	return n
}
