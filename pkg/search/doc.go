// Package search is the aggregate entry point for federated genome searches.
//
// # Overview
//
// A search names a species, an index (one source, or "all") and a raw query
// string. The service tokenizes the query, hands the terms to the budgeted
// dispatcher for each selected source, runs optional enrichment, and
// normalizes the fetched rows into canonical results grouped per source.
//
// # Behavior
//
//   - A blank query returns an empty result set. No source runs, which keeps
//     "nothing searched" distinguishable from "searched, zero matches".
//   - A named index searches that source alone with the standalone budget
//     (30 by default).
//   - The pseudo index "all" searches every source enabled for the species,
//     each with its own smaller budget (10 by default), merged in catalog
//     order regardless of completion order.
//   - Unknown species and unknown index names return typed errors. Anything
//     failing behind a source, including a missing database file, degrades
//     that source to an empty entry and never fails the search.
//
// # Usage
//
//	service, err := search.NewService(cfg, sources.DefaultCatalog(), provider)
//	if err != nil {
//		return err
//	}
//	set, err := service.Search(ctx, search.Request{
//		Species: "homo_sapiens",
//		Index:   "gene",
//		Query:   "BRCA*",
//	})
//
// The returned core.ResultSet keeps per-source entries in deterministic
// order, ready for rendering by the API or the CLI.
package search
