package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigServiceWithBus(nil, path)

	cfg, err := svc.Load()
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want, cfg)
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce())
	assert.Equal(t, 10, cfg.Posts.PageSize)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "loading must not create the file")
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `version = 1
start_view = "posts"

[search]
items_limit = 8
display_fields = ["username"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigServiceWithBus(nil, path).Load()
	require.NoError(t, err)

	assert.Equal(t, ViewPosts, cfg.StartView)
	assert.Equal(t, 8, cfg.Search.ItemsLimit)
	assert.Equal(t, []string{"username"}, cfg.Search.DisplayFields)
	assert.Equal(t, DefaultConfig().Search.URL, cfg.Search.URL)
	assert.Equal(t, DefaultConfig().Posts, cfg.Posts)
}

func TestSaveWritesToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceWithBus(nil, path)

	cfg := DefaultConfig()
	cfg.Posts.URL = "http://localhost:9999/posts"
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "http://localhost:9999/posts")

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Posts.URL, loaded.Posts.URL)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search\nitems_limit = "), 0644))

	_, err := NewConfigServiceWithBus(nil, path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FETCHWIDGETS_SEARCH_ITEMS_LIMIT", "3")
	t.Setenv("FETCHWIDGETS_SEARCH_DISPLAY_FIELDS", "email,username")
	t.Setenv("FETCHWIDGETS_POSTS_URL", "http://example.test/posts")

	cfg, err := NewConfigServiceWithBus(nil, filepath.Join(t.TempDir(), "config.toml")).Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Search.ItemsLimit)
	assert.Equal(t, []string{"email", "username"}, cfg.Search.DisplayFields)
	assert.Equal(t, "http://example.test/posts", cfg.Posts.URL)
	assert.Equal(t, "users", cfg.Search.ResultKey, "unset variables leave values alone")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty search url", func(c *Config) { c.Search.URL = "" }, "search.url"},
		{"no display fields", func(c *Config) { c.Search.DisplayFields = nil }, "display_fields"},
		{"zero limit", func(c *Config) { c.Search.ItemsLimit = 0 }, "items_limit"},
		{"negative debounce", func(c *Config) { c.Search.DebounceMS = -1 }, "debounce_ms"},
		{"empty posts url", func(c *Config) { c.Posts.URL = "" }, "posts.url"},
		{"zero page size", func(c *Config) { c.Posts.PageSize = 0 }, "page_size"},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, "timeout_seconds"},
		{"unknown view", func(c *Config) { c.StartView = "home" }, "start_view"},
	}

	require.NoError(t, DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
