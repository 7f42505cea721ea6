package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/genomehub/unisearch/pkg/sources"
	"github.com/urfave/cli/v3"
)

// SourcesCommand creates the sources command
func SourcesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "List the search indexes and the databases they query",
		Action: func(ctx context.Context, c *cli.Command) error {
			return listSources()
		},
	}
}

func listSources() error {
	catalog := sources.DefaultCatalog()

	fmt.Println("Search indexes:")
	for _, src := range catalog.Sources() {
		var databases []string
		seen := make(map[string]bool)
		for _, q := range src.Queries() {
			if !seen[q.Database] {
				seen[q.Database] = true
				databases = append(databases, q.Database)
			}
		}

		queries := len(src.Queries())
		noun := "queries"
		if queries == 1 {
			noun = "query"
		}
		fmt.Printf("  %s - %d %s against %s\n", src.Name(), queries, noun, strings.Join(databases, ", "))
	}

	return nil
}
