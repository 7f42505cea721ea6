package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/genomehub/unisearch/pkg/species"
)

//go:embed config.toml.sample
var configTemplate string

type Config struct {
	DataDir string                 `toml:"data_dir"`
	Search  SearchConfig           `toml:"search"`
	Server  ServerConfig           `toml:"server"`
	Monitor MonitorConfig          `toml:"monitor"`
	Species map[string]SpeciesInfo `toml:"species"`
}

// SearchConfig tunes the federated dispatcher.
type SearchConfig struct {
	// SourceBudget caps fetched rows when one index is searched directly.
	SourceBudget int `toml:"source_budget"`
	// AllBudget is the per-source cap when searching across all indexes.
	AllBudget int `toml:"all_budget"`
	// QueryTimeout bounds each count or fetch statement. A timed-out query
	// counts as an unavailable database, not a failed search.
	QueryTimeout Duration `toml:"query_timeout"`
	// Parallelism bounds how many source handlers run at once.
	Parallelism int `toml:"parallelism"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type MonitorConfig struct {
	// Interval specifies how often database availability is probed.
	// If not specified, defaults to 5 minutes.
	Interval Duration `toml:"interval"`
}

// SpeciesInfo describes one organism: where its databases live and which
// search indexes are enabled for it. An empty search_indexes list enables
// every known index.
type SpeciesInfo struct {
	Path          string            `toml:"path,omitempty"`
	DisplayName   string            `toml:"display_name,omitempty"`
	Databases     map[string]string `toml:"databases,omitempty"`
	SearchIndexes []string          `toml:"search_indexes,omitempty"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	cfg := &Config{
		DataDir: dataDir,
		Species: make(map[string]SpeciesInfo),
	}
	cfg.applyDefaults()
	return cfg, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		config.DataDir = dataDir
	}
	if config.Species == nil {
		config.Species = make(map[string]SpeciesInfo)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Search.SourceBudget <= 0 {
		c.Search.SourceBudget = 30
	}
	if c.Search.AllBudget <= 0 {
		c.Search.AllBudget = 10
	}
	if c.Search.QueryTimeout.Duration <= 0 {
		c.Search.QueryTimeout = Duration{5 * time.Second}
	}
	if c.Search.Parallelism <= 0 {
		c.Search.Parallelism = 4
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Monitor.Interval.Duration <= 0 {
		c.Monitor.Interval = Duration{5 * time.Minute}
	}
}

// SpeciesRegistry builds the species registry from the configured map, in
// sorted name order.
func (c *Config) SpeciesRegistry() (*species.Registry, error) {
	names := make([]string, 0, len(c.Species))
	for name := range c.Species {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]species.Definition, 0, len(names))
	for _, name := range names {
		info := c.Species[name]
		defs = append(defs, species.Definition{
			Name:          name,
			Path:          info.Path,
			DisplayName:   info.DisplayName,
			Databases:     info.Databases,
			SearchIndexes: info.SearchIndexes,
		})
	}
	return species.NewRegistry(defs)
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = GetDefaultDataDir()
		if err != nil {
			return "", fmt.Errorf("getting default data directory: %w", err)
		}
	}

	// Replace the placeholder data_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/unisearch", dataDir, 1)
	return template, nil
}

// GetDefaultDataDir returns the default directory holding the database files
func GetDefaultDataDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	dir := filepath.Join(dataDir, "unisearch")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetConfigDir returns the configuration directory for unisearch
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "unisearch")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
