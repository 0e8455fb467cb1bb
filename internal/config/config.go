package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"fetchwidgets/internal/domain"
	"fetchwidgets/internal/eventbus"
)

// View names accepted by start_view
const (
	ViewSearch = "search"
	ViewPosts  = "posts"
)

// Config represents the application configuration
type Config struct {
	Version   int          `toml:"version"`
	StartView string       `toml:"start_view" env:"FETCHWIDGETS_START_VIEW"`
	Search    SearchConfig `toml:"search"`
	Posts     PostsConfig  `toml:"posts"`
	HTTP      HTTPConfig   `toml:"http"`
	Log       LogConfig    `toml:"log"`
}

// SearchConfig configures the autocomplete widget
type SearchConfig struct {
	URL           string   `toml:"url" env:"FETCHWIDGETS_SEARCH_URL"`
	ResultKey     string   `toml:"result_key" env:"FETCHWIDGETS_SEARCH_RESULT_KEY"`
	DisplayFields []string `toml:"display_fields" env:"FETCHWIDGETS_SEARCH_DISPLAY_FIELDS" envSeparator:","`
	Placeholder   string   `toml:"placeholder" env:"FETCHWIDGETS_SEARCH_PLACEHOLDER"`
	ItemsLimit    int      `toml:"items_limit" env:"FETCHWIDGETS_SEARCH_ITEMS_LIMIT"`
	DebounceMS    int      `toml:"debounce_ms" env:"FETCHWIDGETS_SEARCH_DEBOUNCE_MS"`
}

// Debounce returns the quiet period as a duration
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// PostsConfig configures the paginated list widget
type PostsConfig struct {
	URL      string `toml:"url" env:"FETCHWIDGETS_POSTS_URL"`
	ItemsKey string `toml:"items_key" env:"FETCHWIDGETS_POSTS_ITEMS_KEY"`
	TotalKey string `toml:"total_key" env:"FETCHWIDGETS_POSTS_TOTAL_KEY"`
	PageSize int    `toml:"page_size" env:"FETCHWIDGETS_POSTS_PAGE_SIZE"`
}

// HTTPConfig configures the shared HTTP client
type HTTPConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds" env:"FETCHWIDGETS_HTTP_TIMEOUT_SECONDS"`
}

// Timeout returns the request timeout as a duration
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// LogConfig configures the log file
type LogConfig struct {
	File  string `toml:"file" env:"FETCHWIDGETS_LOG_FILE"`
	Level string `toml:"level" env:"FETCHWIDGETS_LOG_LEVEL"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service using the default location
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service reading path and
// publishing load/save events on bus. An empty path means DefaultPath.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

// DefaultPath returns $XDG_CONFIG_HOME/fetchwidgets/config.toml or its
// platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "fetchwidgets", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file. A missing file
// yields the defaults. Environment overrides are applied either way.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys absent from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overlays FETCHWIDGETS_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate reports the first setting the widgets cannot work with
func (c *Config) Validate() error {
	switch {
	case c.Search.URL == "":
		return errors.New("search.url must not be empty")
	case len(c.Search.DisplayFields) == 0:
		return errors.New("search.display_fields must not be empty")
	case c.Search.ItemsLimit <= 0:
		return fmt.Errorf("search.items_limit must be positive, got %d", c.Search.ItemsLimit)
	case c.Search.DebounceMS < 0:
		return fmt.Errorf("search.debounce_ms must not be negative, got %d", c.Search.DebounceMS)
	case c.Posts.URL == "":
		return errors.New("posts.url must not be empty")
	case c.Posts.PageSize <= 0:
		return fmt.Errorf("posts.page_size must be positive, got %d", c.Posts.PageSize)
	case c.HTTP.TimeoutSeconds <= 0:
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	case c.StartView != ViewSearch && c.StartView != ViewPosts:
		return fmt.Errorf("start_view must be %q or %q, got %q", ViewSearch, ViewPosts, c.StartView)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		StartView: ViewSearch,
		Search: SearchConfig{
			URL:           "https://dummyjson.com/users/search?q=",
			ResultKey:     "users",
			DisplayFields: []string{"firstName", "lastName"},
			Placeholder:   "Search names...",
			ItemsLimit:    5,
			DebounceMS:    300,
		},
		Posts: PostsConfig{
			URL:      "https://dummyjson.com/posts",
			ItemsKey: "posts",
			TotalKey: "total",
			PageSize: domain.PageSize,
		},
		HTTP: HTTPConfig{TimeoutSeconds: 10},
		Log: LogConfig{
			File:  "fetchwidgets.log",
			Level: "info",
		},
	}
}
