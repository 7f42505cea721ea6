// Package sources assembles the built-in search sources into the catalog
// the rest of the system works from. The set is fixed at compile time;
// adding a source means adding its package here.
package sources

import (
	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/sources/domain"
	"github.com/genomehub/unisearch/pkg/sources/family"
	"github.com/genomehub/unisearch/pkg/sources/gene"
	"github.com/genomehub/unisearch/pkg/sources/genomicalignment"
	"github.com/genomehub/unisearch/pkg/sources/marker"
	"github.com/genomehub/unisearch/pkg/sources/probe"
	"github.com/genomehub/unisearch/pkg/sources/qtl"
	"github.com/genomehub/unisearch/pkg/sources/sequence"
	"github.com/genomehub/unisearch/pkg/sources/snp"
)

// DefaultCatalog returns the full catalog in its canonical display order.
func DefaultCatalog() *core.Catalog {
	catalog, err := core.NewCatalog(
		gene.New(),
		snp.New(),
		sequence.New(),
		domain.New(),
		family.New(),
		marker.New(),
		qtl.New(),
		probe.New(),
		genomicalignment.New(),
	)
	if err != nil {
		panic("sources: building default catalog: " + err.Error())
	}
	return catalog
}
