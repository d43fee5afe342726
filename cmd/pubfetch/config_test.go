// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubfetch/internal/memo"
	"github.com/pdiddy/pubfetch/internal/secrets"
	"github.com/pdiddy/pubfetch/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PUBFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadPipelineConfig_Defaults(t *testing.T) {
	cfg, err := loadPipelineConfig(newTestViper(), secrets.Set{})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPipelineConfig(), cfg)
}

func TestLoadPipelineConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubfetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: 3
http:
  timeout: 5s
crossref:
  mailto: file@example.org
altmetric:
  enabled: false
cache:
  backend: memory
`), 0o644))
	t.Setenv("PUBFETCH_HTTP_MAX_RETRIES", "-1")

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadPipelineConfig(v, secrets.Set{secrets.CrossRefMailto: "secret@example.org", secrets.AltmetricAPIKey: "ak"})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, -1, cfg.HTTP.MaxRetries)
	assert.Equal(t, "file@example.org", cfg.CrossRef.Mailto, "config value wins over secret file")
	assert.Equal(t, "ak", cfg.Altmetric.APIKey)
	assert.False(t, cfg.Altmetric.Enabled)
	assert.True(t, cfg.CrossRef.Enabled)
	assert.Equal(t, types.CacheMemory, cfg.Cache.Backend)
}

func TestLoadPipelineConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  any
		errMsg string
	}{
		{"zero workers", "workers", 0, "workers must be at least 1"},
		{"unknown backend", "cache.backend", "redis", "unknown cache backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper()
			v.Set(tt.key, tt.value)
			_, err := loadPipelineConfig(v, secrets.Set{})
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestOpenStore(t *testing.T) {
	s, closeStore, err := openStore(types.CacheConfig{Backend: types.CacheMemory})
	require.NoError(t, err)
	assert.IsType(t, &memo.MemoryStore{}, s)
	assert.NoError(t, closeStore())

	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	s, closeStore, err = openStore(types.CacheConfig{Backend: types.CacheSQLite, Path: path})
	require.NoError(t, err)
	assert.IsType(t, &memo.SQLiteStore{}, s)
	assert.NoError(t, closeStore())
	assert.FileExists(t, path)
}

func TestBuildAggregator_DisabledSources(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.CrossRef.Enabled = false
	agg := buildAggregator(cfg, memo.NewMemoryStore(), nil)

	assert.NotNil(t, agg.Discovery)
	assert.Nil(t, agg.Works)
	assert.NotNil(t, agg.Engagement)
	assert.Equal(t, cfg.Workers, agg.Workers)
}
