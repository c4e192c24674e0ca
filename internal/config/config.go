package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

const (
	DefaultCatalogURL = "https://world.openfoodfacts.org/api/v2/search"
	DefaultUserAgent  = "foodpipe/1.0 (food data pipeline)"
)

type Config struct {
	Catalog Catalog `yaml:"catalog"`
	Storage Storage `yaml:"storage"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

type Catalog struct {
	BaseURL        string `yaml:"base_url" env:"FOODPIPE_CATALOG_URL"`
	UserAgent      string `yaml:"user_agent" env:"FOODPIPE_USER_AGENT"`
	PageSize       int    `yaml:"page_size" env:"FOODPIPE_PAGE_SIZE"`
	Pages          int    `yaml:"pages" env:"FOODPIPE_PAGES"`
	StartPage      int    `yaml:"start_page"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type Storage struct {
	DataDir       string `yaml:"data_dir" env:"FOODPIPE_DATA_DIR"`
	DocumentsFile string `yaml:"documents_file"`
	WarehouseFile string `yaml:"warehouse_file"`
}

type Server struct {
	Port int `yaml:"port" env:"FOODPIPE_PORT"`
}

type Logging struct {
	Level  string `yaml:"level" env:"FOODPIPE_LOG_LEVEL"`
	Format string `yaml:"format" env:"FOODPIPE_LOG_FORMAT"`
}

// ConfigDir returns the XDG config directory for foodpipe.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "foodpipe")
}

// DataDir returns the XDG data directory for foodpipe.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "foodpipe")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/foodpipe/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'foodpipe init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration with environment overrides,
// for commands that can run without a config file.
func Default() (*Config, error) {
	return parse(DefaultConfigYAML)
}

// parse parses YAML bytes into a Config, applying defaults and then
// environment variable overrides.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Catalog: Catalog{
			BaseURL:        DefaultCatalogURL,
			UserAgent:      DefaultUserAgent,
			PageSize:       50,
			Pages:          1,
			StartPage:      1,
			TimeoutSeconds: 30,
		},
		Storage: Storage{
			DocumentsFile: "documents.db",
			WarehouseFile: "warehouse.db",
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO", Format: "console"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.Pages < 1 {
		return fmt.Errorf("catalog.pages must be positive, got %d", c.Catalog.Pages)
	}
	if c.Catalog.StartPage < 1 {
		return fmt.Errorf("catalog.start_page must be positive, got %d", c.Catalog.StartPage)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir
	}
	return DataDir()
}

// DocumentsPath returns the raw/enriched document database path.
func (c *Config) DocumentsPath() string {
	return c.storagePath(c.Storage.DocumentsFile)
}

// WarehousePath returns the relational store path.
func (c *Config) WarehousePath() string {
	return c.storagePath(c.Storage.WarehouseFile)
}

func (c *Config) storagePath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.GetDataDir(), file)
}

// Timeout returns the catalog request timeout.
func (c *Config) Timeout() time.Duration {
	if c.Catalog.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
