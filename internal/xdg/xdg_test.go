package xdg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/smoke/internal/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile(t *testing.T) {
	home := t.TempDir()
	system := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", system)

	dirs := xdg.NewXDGDirs()
	assert.Equal(t, []string{home, system}, dirs.ConfigDirs())

	_, ok := dirs.FindConfigFile("smoke", "battery.toml")
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(system, "smoke"), 0o755))
	sysFile := filepath.Join(system, "smoke", "battery.toml")
	require.NoError(t, os.WriteFile(sysFile, nil, 0o644))
	p, ok := dirs.FindConfigFile("smoke", "battery.toml")
	assert.True(t, ok)
	assert.Equal(t, sysFile, p)

	require.NoError(t, os.MkdirAll(filepath.Join(home, "smoke"), 0o755))
	homeFile := filepath.Join(home, "smoke", "battery.toml")
	require.NoError(t, os.WriteFile(homeFile, nil, 0o644))
	p, _ = dirs.FindConfigFile("smoke", "battery.toml")
	assert.Equal(t, homeFile, p)
}
