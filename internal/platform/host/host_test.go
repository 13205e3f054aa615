package host

import (
	"testing"

	"Mansoor88-6/launcher-kit/internal/config"
	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPlatform(t *testing.T) {
	cfg := &config.Config{CacheDir: t.TempDir()}
	cfg.Platform.Kind = platform.HostAndroid
	cfg.Platform.ADB.Serial = "emulator-5554"

	p, err := NewPlatform(cfg, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, platform.HostAndroid, p.Name())

	cfg.Platform.Kind = platform.HostLinux
	cfg.Platform.Linux.DataDirs = []string{t.TempDir()}
	p, err = NewPlatform(cfg, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, platform.HostLinux, p.Name())

	cfg.Platform.Kind = "windows"
	_, err = NewPlatform(cfg, zap.NewNop())
	assert.Equal(t, platform.KindUnsupported, platform.KindOf(err))
}
