package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/core"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/species"
	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	targetFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "species",
			Usage: "Target specific species (optional)",
		},
		&cli.StringFlag{
			Name:  "database",
			Usage: "Target specific logical database (optional)",
		},
	}

	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Flags: targetFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return analyzeDatabases(c.String("config"), c.String("species"), c.String("database"))
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment databases",
				Flags: targetFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return vacuumDatabases(c.String("config"), c.String("species"), c.String("database"))
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Run WAL checkpoint to flush changes",
				Flags: targetFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return checkpointDatabases(c.String("config"), c.String("species"), c.String("database"))
				},
			},
			{
				Name:  "all",
				Usage: "Run all optimization operations (optimize, analyze, checkpoint)",
				Flags: targetFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return optimizeAll(c.String("config"), c.String("species"), c.String("database"))
				},
			},
		},
	}
}

func analyzeDatabases(configPath, speciesName, logical string) error {
	fmt.Println("Running ANALYZE...")
	return forEachDatabase(configPath, speciesName, logical, "ANALYZE", func(name string, database *db.Database) error {
		return database.Analyze()
	})
}

func vacuumDatabases(configPath, speciesName, logical string) error {
	fmt.Println("Running VACUUM...")
	fmt.Println("This may take a while for large databases...")
	return forEachDatabase(configPath, speciesName, logical, "VACUUM", func(name string, database *db.Database) error {
		return database.Vacuum()
	})
}

func checkpointDatabases(configPath, speciesName, logical string) error {
	fmt.Println("Running WAL checkpoint...")
	return forEachDatabase(configPath, speciesName, logical, "WAL checkpoint", func(name string, database *db.Database) error {
		return database.WALCheckpoint()
	})
}

func optimizeAll(configPath, speciesName, logical string) error {
	fmt.Println("Running all optimization operations...")
	return forEachDatabase(configPath, speciesName, logical, "optimization", func(name string, database *db.Database) error {
		if err := database.Optimize(); err != nil {
			return fmt.Errorf("optimize: %w", err)
		}
		if err := database.Analyze(); err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		if err := database.WALCheckpoint(); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
		return nil
	})
}

// forEachDatabase runs an operation against every deployed database matching
// the optional species and logical database filters. Databases whose files do
// not exist are skipped.
func forEachDatabase(configPath, speciesName, logical, op string, fn func(name string, database *db.Database) error) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logical != "" && !db.HasSchema(logical) {
		return fmt.Errorf("unknown logical database %q", logical)
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

	processed := 0
	hasErrors := false

	for _, sp := range targets {
		logicals := sp.Databases()
		if len(logicals) == 0 {
			logicals = db.Logicals()
		}

		for _, l := range logicals {
			if logical != "" && l != logical {
				continue
			}

			name := sp.Name + "/" + l
			database, err := provider.Get(sp, l)
			if err != nil {
				if errors.Is(err, core.ErrUnavailable) {
					continue
				}
				fmt.Printf("  %s... ✗ FAILED - %v\n", name, err)
				hasErrors = true
				continue
			}

			fmt.Printf("  %s... ", name)
			if err := fn(name, database); err != nil {
				fmt.Printf("✗ FAILED - %v\n", err)
				hasErrors = true
				continue
			}
			fmt.Printf("✓ OK\n")
			processed++
		}
	}

	fmt.Println()
	if hasErrors {
		return fmt.Errorf("%s failed for one or more databases", op)
	}
	if processed == 0 {
		fmt.Println("No databases found")
		return nil
	}

	fmt.Printf("✓ %s completed for %d databases\n", op, processed)
	return nil
}
