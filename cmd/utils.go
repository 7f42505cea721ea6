package cmd

import (
	"fmt"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/log"
	"github.com/genomehub/unisearch/pkg/search"
	"github.com/genomehub/unisearch/pkg/sources"
	"github.com/urfave/cli/v3"
)

// setupLogging applies the global --debug flag before a command runs.
func setupLogging(c *cli.Command) {
	log.SetGlobalDebug(c.Bool("debug"))
}

// openSearchService builds the search stack from a configuration file. The
// caller owns the returned provider and must close it when done.
func openSearchService(configPath string) (*config.Config, *db.Provider, *search.Service, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	provider := db.NewProvider(cfg.DataDir)
	service, err := search.NewService(cfg, sources.DefaultCatalog(), provider)
	if err != nil {
		closeProvider(provider)
		return nil, nil, nil, fmt.Errorf("creating search service: %w", err)
	}

	return cfg, provider, service, nil
}

func closeProvider(provider *db.Provider) {
	if err := provider.Close(); err != nil {
		fmt.Printf("Warning: failed to close database provider: %v\n", err)
	}
}
