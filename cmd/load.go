package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/loader"
	"github.com/urfave/cli/v3"
)

// LoadCommand creates the load command
func LoadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load tab-separated dump files into a species database",
		ArgsUsage: "<file-or-directory>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "species",
				Usage:    "Species the dumps belong to",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "database",
				Usage: "Logical database the dumps belong to",
				Value: "core",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			setupLogging(c)
			return loadDumps(ctx, c.String("config"), c.String("species"), c.String("database"), c.Args().Slice())
		},
	}
}

// loadDumps imports the given dump files or directories
func loadDumps(ctx context.Context, configPath, speciesName, logical string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no dump files or directories given")
	}
	if !db.HasSchema(logical) {
		return fmt.Errorf("unknown logical database %q", logical)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry, err := cfg.SpeciesRegistry()
	if err != nil {
		return fmt.Errorf("building species registry: %w", err)
	}
	sp, err := registry.Get(speciesName)
	if err != nil {
		return err
	}

	provider := db.NewProvider(cfg.DataDir)
	defer closeProvider(provider)

	ldr := loader.New(provider)

	var totalRows, totalSkipped int64
	files := 0

	report := func(stats loader.Stats) {
		line := fmt.Sprintf("  %s: %s rows", stats.Table, formatCount(stats.Rows))
		if stats.Skipped > 0 {
			line += fmt.Sprintf(" (%s skipped)", formatCount(stats.Skipped))
		}
		fmt.Println(line)
		totalRows += stats.Rows
		totalSkipped += stats.Skipped
		files++
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", path, err)
		}

		if info.IsDir() {
			stats, err := ldr.LoadDir(ctx, sp, logical, path)
			if err != nil {
				return fmt.Errorf("loading directory %s: %w", path, err)
			}
			for _, st := range stats {
				report(st)
			}
			continue
		}

		st, err := ldr.LoadFile(ctx, sp, logical, path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		report(st)
	}

	fmt.Printf("\nLoaded %s rows from %d files into %s/%s", formatCount(totalRows), files, sp.Name, logical)
	if totalSkipped > 0 {
		fmt.Printf(" (%s malformed lines skipped)", formatCount(totalSkipped))
	}
	fmt.Println()
	return nil
}
