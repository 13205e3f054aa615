package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: test
log:
  level: debug
  format: json
platform:
  kind: linux
  linux:
    alarm_app: org.gnome.clocks
watcher:
  poll_interval: 500ms
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "linux", cfg.Platform.Kind)
	assert.Equal(t, "org.gnome.clocks", cfg.Platform.Linux.AlarmApp)
	assert.Equal(t, 500*time.Millisecond, cfg.Watcher.PollInterval)

	// untouched sections keep their defaults
	assert.Equal(t, 2, cfg.Watcher.Workers)
	assert.Equal(t, 8765, cfg.Server.Port)
	assert.Equal(t, 168*time.Hour, cfg.Journal.Retention)
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("LAUNCHERKIT_SERVER_PORT", "9999")
	t.Setenv("LAUNCHERKIT_PLATFORM", "android")
	t.Setenv("LAUNCHERKIT_ADB_SERIAL", "emulator-5554")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "localhost:9999", cfg.Server.Addr())
	assert.Equal(t, "android", cfg.Platform.Kind)
	assert.Equal(t, "emulator-5554", cfg.Platform.ADB.Serial)
	assert.Equal(t, 15*time.Second, cfg.Platform.ADB.CommandTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"log format", "log:\n  format: xml\n"},
		{"platform kind", "platform:\n  kind: windows\n"},
		{"workers", "watcher:\n  workers: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
