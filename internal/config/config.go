package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dori/tallyboard/internal/db"
	"github.com/dori/tallyboard/internal/model"
)

// DefaultCatalog is the redeem catalog used when TALLY_CATALOG is unset
const DefaultCatalog = "Coffee break:20,Long lunch:50,Day off:200"

// Config holds application configuration loaded from the environment
type Config struct {
	DataDir        string
	DBPath         string
	Theme          string
	Debug          bool
	LogLevel       zerolog.Level
	Notify         bool
	SearchDebounce time.Duration
	Catalog        []model.CatalogItem
}

// Load reads an optional .env file and then the TALLY_* environment variables.
// Variables already set in the environment take precedence over .env.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	debug, err := getEnvBool("TALLY_DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	notify, err := getEnvBool("TALLY_NOTIFY", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	debounce, err := getEnvDuration("TALLY_SEARCH_DEBOUNCE", 200*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	level, err := zerolog.ParseLevel(getEnv("TALLY_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("config.Load: TALLY_LOG_LEVEL: %w", err)
	}

	catalog, err := ParseCatalog(getEnv("TALLY_CATALOG", DefaultCatalog))
	if err != nil {
		return nil, fmt.Errorf("config.Load: TALLY_CATALOG: %w", err)
	}

	dataDir := getEnv("TALLY_DATA_DIR", db.DefaultDataDir())
	cfg := &Config{
		DataDir:        dataDir,
		DBPath:         filepath.Join(dataDir, "tallyboard.db"),
		Theme:          getEnv("TALLY_THEME", "nord"),
		Debug:          debug,
		LogLevel:       level,
		Notify:         notify,
		SearchDebounce: debounce,
		Catalog:        catalog,
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// SetDataDir points the config at a different data directory
func (c *Config) SetDataDir(dir string) {
	c.DataDir = dir
	c.DBPath = filepath.Join(dir, "tallyboard.db")
}

// LogPath returns the debug log location
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "tallyboard.log")
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return errors.New("TALLY_DATA_DIR must not be empty")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("TALLY_SEARCH_DEBOUNCE must not be negative, got %s", c.SearchDebounce)
	}
	return nil
}

// ParseCatalog parses "name:cost,name:cost". Costs must be positive integers.
func ParseCatalog(s string) ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		i := strings.LastIndex(entry, ":")
		if i <= 0 {
			return nil, fmt.Errorf("entry %q: expected name:cost", entry)
		}
		name := strings.TrimSpace(entry[:i])
		cost, err := strconv.Atoi(strings.TrimSpace(entry[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry, err)
		}
		if cost <= 0 {
			return nil, fmt.Errorf("entry %q: cost must be positive", entry)
		}
		items = append(items, model.CatalogItem{Name: name, Cost: cost})
	}
	return items, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
