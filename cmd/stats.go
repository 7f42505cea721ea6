package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/species"
	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show row counts per species database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "species",
				Usage: "Target specific species (optional)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			setupLogging(c)
			return showStats(c.String("config"), c.String("species"))
		},
	}
}

// showStats displays table row counts for every deployed database
func showStats(configPath, speciesName string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry, err := cfg.SpeciesRegistry()
	if err != nil {
		return fmt.Errorf("building species registry: %w", err)
	}

	provider := db.NewProvider(cfg.DataDir)
	defer closeProvider(provider)

	targets := registry.All()
	if speciesName != "" {
		sp, err := registry.Get(speciesName)
		if err != nil {
			return err
		}
		targets = []*species.Species{sp}
	}

	fmt.Printf("📊 Database Statistics\n")
	fmt.Printf("═══════════════════════\n\n")

	var grandTotal int64
	databases := 0

	for _, sp := range targets {
		logicals := sp.Databases()
		if len(logicals) == 0 {
			logicals = db.Logicals()
		}

		for _, logical := range logicals {
			database, err := provider.Get(sp, logical)
			if err != nil {
				if errors.Is(err, core.ErrUnavailable) {
					continue
				}
				fmt.Printf("❌ %s/%s: %v\n\n", sp.Name, logical, err)
				continue
			}

			counts, err := database.TableCounts()
			if err != nil {
				fmt.Printf("❌ %s/%s: %v\n\n", sp.Name, logical, err)
				continue
			}

			var tables []string
			for table := range counts {
				tables = append(tables, table)
			}
			sort.Strings(tables)

			fmt.Printf("📁 %s/%s\n", sp.Name, logical)
			var total int64
			for _, table := range tables {
				fmt.Printf("   %s: %s\n", table, formatCount(int64(counts[table])))
				total += int64(counts[table])
			}
			fmt.Printf("   total: %s rows\n\n", formatCount(total))

			grandTotal += total
			databases++
		}
	}

	if databases == 0 {
		fmt.Println("No databases found. Run 'unisearch load' to import dump files.")
		return nil
	}

	fmt.Printf("Total: %s rows across %d databases\n", formatCount(grandTotal), databases)
	return nil
}
