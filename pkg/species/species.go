// Package species resolves the organisms a deployment serves: which logical
// databases each one carries, the URL path results link under, and which
// search indexes are enabled for it.
package species

import (
	"fmt"
	"sort"
	"strings"

	"github.com/genomehub/unisearch/pkg/core"
)

// Definition is the raw description of one species, typically decoded from
// the configuration file.
type Definition struct {
	Name          string
	Path          string
	DisplayName   string
	Databases     map[string]string
	SearchIndexes []string
}

// Species is one configured organism.
type Species struct {
	Name          string
	Path          string
	DisplayName   string
	SearchIndexes []string

	databases map[string]string
}

// New builds a Species from a definition, filling derived defaults: the URL
// path capitalizes the first letter of the name, the display name replaces
// underscores with spaces.
func New(def Definition) (*Species, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, fmt.Errorf("species definition without a name")
	}

	sp := &Species{
		Name:          name,
		Path:          def.Path,
		DisplayName:   def.DisplayName,
		SearchIndexes: append([]string(nil), def.SearchIndexes...),
		databases:     make(map[string]string, len(def.Databases)),
	}
	for logical, file := range def.Databases {
		sp.databases[logical] = file
	}

	if sp.Path == "" {
		sp.Path = strings.ToUpper(name[:1]) + name[1:]
	}
	if sp.DisplayName == "" {
		sp.DisplayName = strings.ReplaceAll(sp.Path, "_", " ")
	}
	return sp, nil
}

// Ref returns the species fields carried on results.
func (s *Species) Ref() core.SpeciesRef {
	return core.SpeciesRef{Name: s.Name, Path: s.Path}
}

// DatabaseFile returns the database file name for a logical database,
// defaulting to "<species>_<logical>.db" when the configuration does not
// override it.
func (s *Species) DatabaseFile(logical string) string {
	if file, ok := s.databases[logical]; ok && file != "" {
		return file
	}
	return fmt.Sprintf("%s_%s.db", s.Name, logical)
}

// Databases returns the logical database names explicitly configured for the
// species, sorted.
func (s *Species) Databases() []string {
	out := make([]string, 0, len(s.databases))
	for logical := range s.databases {
		out = append(out, logical)
	}
	sort.Strings(out)
	return out
}

// Registry resolves species by canonical name.
type Registry struct {
	order  []string
	byName map[string]*Species
}

// NewRegistry builds a registry from definitions. Species are kept in sorted
// name order so listings and probes are deterministic.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Species, len(defs))}
	for _, def := range defs {
		sp, err := New(def)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byName[sp.Name]; dup {
			return nil, fmt.Errorf("duplicate species %q", sp.Name)
		}
		r.byName[sp.Name] = sp
		r.order = append(r.order, sp.Name)
	}
	sort.Strings(r.order)
	return r, nil
}

// Get resolves a species by name.
func (r *Registry) Get(name string) (*Species, error) {
	sp, ok := r.byName[name]
	if !ok {
		return nil, &core.UnknownSpeciesError{Name: name}
	}
	return sp, nil
}

// Names returns the configured species names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns the configured species in sorted name order.
func (r *Registry) All() []*Species {
	out := make([]*Species, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of configured species.
func (r *Registry) Len() int {
	return len(r.order)
}
