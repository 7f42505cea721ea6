package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/urfave/cli/v3"
)

// SpeciesCommand creates the species command
func SpeciesCommand() *cli.Command {
	return &cli.Command{
		Name:  "species",
		Usage: "List configured species and their database files",
		Action: func(ctx context.Context, c *cli.Command) error {
			return listSpecies(c.String("config"))
		},
	}
}

func listSpecies(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry, err := cfg.SpeciesRegistry()
	if err != nil {
		return fmt.Errorf("building species registry: %w", err)
	}

	if registry.Len() == 0 {
		fmt.Println("No species configured. Run 'unisearch init' and add species to the configuration.")
		return nil
	}

	fmt.Println("Configured species:")
	for _, sp := range registry.All() {
		indexes := "all indexes"
		if len(sp.SearchIndexes) > 0 {
			indexes = strings.Join(sp.SearchIndexes, ", ")
		}
		fmt.Printf("  %s (%s) - %s\n", sp.Name, sp.DisplayName, indexes)

		logicals := sp.Databases()
		if len(logicals) == 0 {
			logicals = db.Logicals()
		}
		for _, logical := range logicals {
			file := filepath.Join(cfg.DataDir, sp.DatabaseFile(logical))
			info, err := os.Stat(file)
			if err != nil {
				fmt.Printf("    %s: missing\n", logical)
				continue
			}
			fmt.Printf("    %s: %s\n", logical, formatBytes(info.Size()))
		}
	}

	return nil
}
