package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/genomehub/unisearch/pkg/api"
	"github.com/genomehub/unisearch/pkg/config"
	"github.com/genomehub/unisearch/pkg/db"
	"github.com/genomehub/unisearch/pkg/monitor"
	"github.com/genomehub/unisearch/pkg/search"
	"github.com/genomehub/unisearch/pkg/sources"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides the configuration)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides the configuration)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			setupLogging(c)
			return serve(ctx, c.String("config"), c.String("host"), c.Int("port"))
		},
	}
}

// serve runs the API server until interrupted. SIGHUP or a config file change
// reloads the species registry and search settings in place.
func serve(ctx context.Context, configPath, host string, port int) error {
	cfg, provider, service, err := openSearchService(configPath)
	if err != nil {
		return err
	}
	defer closeProvider(provider)

	if host == "" {
		host = cfg.Server.Host
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	serveCtx, serveCancel := context.WithCancel(ctx)
	defer serveCancel()

	mon := monitor.New(provider, service.Registry(), cfg.Monitor.Interval.Duration)
	if err := mon.Start(serveCtx); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}
	currentMonitor := mon
	defer func() {
		currentMonitor.Stop()
	}()

	apiServer := api.NewServer(service, provider, mon)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: apiServer.Handler(),
	}

	go func() {
		log.Printf("Starting search API on http://%s:%d", host, port)
		log.Printf("Available endpoints:")
		log.Printf("  GET /api/search - Federated search across the enabled indexes")
		log.Printf("  GET /api/search/stream - Per-source results over WebSocket")
		log.Printf("  GET /api/species - Configured species")
		log.Printf("  GET /api/sources - Search indexes in the catalog")
		log.Printf("  GET /api/status - Database availability")
		log.Printf("  GET /api/stats - Row counts per database")
		log.Printf("  GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Signal handling includes SIGHUP for reload
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Set up filesystem watcher for the config file. The channels stay nil
	// when the watcher cannot be created, so the select below never fires.
	var watcherEvents chan fsnotify.Event
	var watcherErrors chan error
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Warning: failed to close config file watcher: %v", err)
			}
		}()
		watcherEvents = watcher.Events
		watcherErrors = watcher.Errors

		if err := watcher.Add(configPath); err != nil {
			log.Printf("Warning: failed to watch config file %s: %v", configPath, err)
		} else {
			log.Printf("Watching config file for changes: %s", configPath)
		}
	}

	log.Println("Server started. Press Ctrl+C to stop, send SIGHUP to reload, or modify the config file for automatic reload.")

	currentConfig := cfg

	reload := func() {
		newCfg, newMon, err := reloadConfiguration(serveCtx, configPath, currentConfig, provider, apiServer, currentMonitor)
		if err != nil {
			log.Printf("Failed to reload configuration: %v", err)
			return
		}
		currentConfig = newCfg
		currentMonitor = newMon
		log.Println("Configuration reloaded successfully")
	}

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading configuration...")
				reload()
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		case event, ok := <-watcherEvents:
			if !ok {
				continue
			}
			// React to write, create, rename, and remove events (editors often use atomic writes)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				log.Printf("Config file changed: %s (event: %s), reloading configuration...", event.Name, event.Op.String())

				// For rename/remove events the file was replaced, so re-add it to the watcher
				if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					// Small delay to ensure the new file is fully written
					time.Sleep(200 * time.Millisecond)

					if _, err := os.Stat(configPath); os.IsNotExist(err) {
						log.Printf("Config file was removed and not replaced, skipping reload")
						continue
					}

					if err := watcher.Add(configPath); err != nil {
						log.Printf("Warning: failed to re-add config file to watcher after rename/remove: %v", err)
					}
				} else {
					// Small delay to ensure the file write is complete
					time.Sleep(100 * time.Millisecond)
				}

				reload()
			}
		case err, ok := <-watcherErrors:
			if !ok {
				continue
			}
			log.Printf("Config file watcher error: %v", err)
		}
	}
}

// reloadConfiguration rebuilds the search service and monitor from the config
// file and swaps them into the running API server. The database provider and
// listen address survive reloads; changing data_dir or the server address
// requires a restart.
func reloadConfiguration(ctx context.Context, configPath string, oldCfg *config.Config, provider *db.Provider, apiServer *api.Server, oldMon *monitor.Monitor) (*config.Config, *monitor.Monitor, error) {
	newCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading new config: %w", err)
	}

	if newCfg.DataDir != oldCfg.DataDir {
		log.Printf("Warning: data_dir changed, restart required for it to take effect")
	}
	if newCfg.Server != oldCfg.Server {
		log.Printf("Warning: server address changed, restart required for it to take effect")
	}

	service, err := search.NewService(newCfg, sources.DefaultCatalog(), provider)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuilding search service: %w", err)
	}

	newMon := monitor.New(provider, service.Registry(), newCfg.Monitor.Interval.Duration)
	if err := newMon.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("restarting monitor: %w", err)
	}
	oldMon.Stop()

	apiServer.Swap(service, newMon)
	log.Printf("Configuration reload complete: %d species configured", service.Registry().Len())

	return newCfg, newMon, nil
}
