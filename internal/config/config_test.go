package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "avcatalog.db", cfg.Database.Path)
	assert.True(t, cfg.Database.Seed)
	assert.Equal(t, "./exports", cfg.Exports.Directory)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 9090
database:
  path: /var/lib/avcatalog/catalog.db
  seed: false
exports:
  directory: /var/lib/avcatalog/exports
  font: /usr/share/fonts/truetype/dejavu/DejaVuSans.ttf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/lib/avcatalog/catalog.db", cfg.Database.Path)
	assert.False(t, cfg.Database.Seed)
	assert.Equal(t, "/var/lib/avcatalog/exports", cfg.Exports.Directory)
	assert.Equal(t, "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf", cfg.Exports.Font)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
