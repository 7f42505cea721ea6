package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/species"
)

// Provider hands out lazily opened databases under a single data directory.
// One SQLite file backs each (species, logical database) pair; files are
// opened on first use and kept open until Close. A file that does not exist
// is reported as core.ErrUnavailable so searches degrade instead of failing:
// deployments routinely carry only a subset of databases per species.
type Provider struct {
	dataDir string
	mu      sync.RWMutex
	open    map[string]*Database
}

func NewProvider(dataDir string) *Provider {
	return &Provider{
		dataDir: dataDir,
		open:    make(map[string]*Database),
	}
}

// DataDir returns the directory holding the database files.
func (p *Provider) DataDir() string {
	return p.dataDir
}

// Get returns the logical database of a species, opening it on first use.
// A missing file wraps core.ErrUnavailable.
func (p *Provider) Get(sp *species.Species, logical string) (*Database, error) {
	key := sp.Name + "/" + logical

	p.mu.RLock()
	database, exists := p.open[key]
	p.mu.RUnlock()

	if exists {
		return database, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if database, exists := p.open[key]; exists {
		return database, nil
	}

	path := filepath.Join(p.dataDir, sp.DatabaseFile(logical))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", key, core.ErrUnavailable)
	}

	database, err := Open(path, key)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}

	p.open[key] = database
	return database, nil
}

// Create opens the logical database of a species, creating the file and its
// schema when absent. Used by the loader; searches go through Get.
func (p *Provider) Create(sp *species.Species, logical string) (*Database, error) {
	if _, ok := Schemas[logical]; !ok {
		return nil, fmt.Errorf("unknown logical database %q", logical)
	}

	key := sp.Name + "/" + logical

	p.mu.Lock()
	defer p.mu.Unlock()

	if database, exists := p.open[key]; exists {
		return database, nil
	}

	path := filepath.Join(p.dataDir, sp.DatabaseFile(logical))
	database, err := Open(path, key)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", key, err)
	}
	if err := database.InitSchema(logical); err != nil {
		if cerr := database.Close(); cerr != nil {
			return nil, fmt.Errorf("initializing %s: %w (close: %v)", key, err, cerr)
		}
		return nil, fmt.Errorf("initializing %s: %w", key, err)
	}

	p.open[key] = database
	return database, nil
}

// Species returns the connection view for one species, implementing
// core.ConnectionProvider for the dispatcher and enrichers.
func (p *Provider) Species(sp *species.Species) core.ConnectionProvider {
	return &speciesConnections{provider: p, sp: sp}
}

// OpenNames returns the identifiers of currently open databases, sorted.
func (p *Provider) OpenNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.open))
	for key := range p.open {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Close closes every open database.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for key, database := range p.open {
		if err := database.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", key, err)
		}
		delete(p.open, key)
	}
	return firstErr
}

// speciesConnections scopes a provider to one species.
type speciesConnections struct {
	provider *Provider
	sp       *species.Species
}

func (c *speciesConnections) Connection(database string) (*sql.DB, error) {
	d, err := c.provider.Get(c.sp, database)
	if err != nil {
		return nil, err
	}
	return d.DB(), nil
}
