package host

import (
	"path/filepath"

	"Mansoor88-6/launcher-kit/internal/config"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/platform/android"
	"Mansoor88-6/launcher-kit/internal/platform/linux"

	"go.uber.org/zap"
)

// Host is a platform whose package watcher can be stopped
type Host interface {
	platform.Platform
	Close()
}

// NewPlatform creates the host implementation selected by the configuration
func NewPlatform(cfg *config.Config, logger *zap.Logger) (Host, error) {
	kind, err := platform.ResolveHost(cfg.Platform.Kind, cfg.Platform.ADB.Serial)
	if err != nil {
		return nil, err
	}

	switch kind {
	case platform.HostAndroid:
		adbCfg := cfg.Platform.ADB
		adb := android.NewADB(adbCfg.Path, adbCfg.Serial, adbCfg.CommandTimeout, logger.Named("adb"))
		return android.New(adb, android.Config{
			Serial:       adbCfg.Serial,
			AAPTPath:     adbCfg.AAPTPath,
			WorkDir:      filepath.Join(cfg.CacheDir, "apk"),
			PollInterval: cfg.Watcher.PollInterval,
		}, logger.Named("android")), nil
	case platform.HostLinux:
		linuxCfg := cfg.Platform.Linux
		return linux.New(linux.Config{
			DataDirs:           linuxCfg.DataDirs,
			SettingsCommand:    linuxCfg.SettingsCommand,
			DefaultAppsCommand: linuxCfg.DefaultAppsCommand,
			AlarmApp:           linuxCfg.AlarmApp,
			PollInterval:       cfg.Watcher.PollInterval,
		}, nil, logger.Named("linux")), nil
	default:
		return nil, &platform.UnsupportedPlatformError{OS: kind}
	}
}
