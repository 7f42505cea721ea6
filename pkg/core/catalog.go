package core

import "fmt"

// Catalog is the fixed set of search sources, constructed once at startup
// from an explicit list. There is no self-registration: the full source set
// is auditable at the construction site, and lookups never fall back to
// anything dynamic.
type Catalog struct {
	order   []string
	sources map[string]Source
}

// NewCatalog builds a catalog preserving declaration order. Duplicate or
// empty source names are construction errors.
func NewCatalog(sources ...Source) (*Catalog, error) {
	c := &Catalog{
		sources: make(map[string]Source, len(sources)),
	}
	for _, s := range sources {
		name := s.Name()
		if name == "" {
			return nil, fmt.Errorf("source with empty name")
		}
		if _, dup := c.sources[name]; dup {
			return nil, fmt.Errorf("duplicate source %q", name)
		}
		c.sources[name] = s
		c.order = append(c.order, name)
	}
	return c, nil
}

// Lookup resolves a source by name.
func (c *Catalog) Lookup(name string) (Source, bool) {
	s, ok := c.sources[name]
	return s, ok
}

// Names returns the source names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Sources returns the sources in declaration order.
func (c *Catalog) Sources() []Source {
	out := make([]Source, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.sources[name])
	}
	return out
}

// Len returns the number of sources.
func (c *Catalog) Len() int {
	return len(c.order)
}
