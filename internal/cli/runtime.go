package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/bridge/remote"
	"Mansoor88-6/launcher-kit/internal/config"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/logger"
	"Mansoor88-6/launcher-kit/internal/monitoring"
	"Mansoor88-6/launcher-kit/internal/platform/host"
	"Mansoor88-6/launcher-kit/pkg/launcherkit"

	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	remoteTimeout   = 30 * time.Second
)

// runtime is everything a command needs, wired from the configuration
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	client *launcherkit.Client

	// exactly one of native and remote is set
	native  *bridge.NativeModule
	remote  *remote.Module
	host    host.Host
	emitter *events.Emitter
	metrics *monitoring.Metrics
}

// moduleFactory is replaced in tests
var moduleFactory = newRuntimeModule

// openRuntimeConfigOnly loads the configuration and logger only
func openRuntimeConfigOnly() (*runtime, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &runtime{cfg: cfg, log: log}, nil
}

func openRuntime(allowRemote bool) (*runtime, error) {
	if remoteURL != "" && !allowRemote {
		return nil, errors.New("this command runs the native side and cannot use --remote")
	}

	rt, err := openRuntimeConfigOnly()
	if err != nil {
		return nil, err
	}

	m, err := moduleFactory(rt)
	if err != nil {
		rt.log.Sync()
		return nil, err
	}
	rt.client = launcherkit.New(bridge.Linked(m), rt.log.Named("client"))
	return rt, nil
}

func newRuntimeModule(rt *runtime) (bridge.Module, error) {
	if remoteURL != "" {
		rt.remote = remote.New(remoteURL, remoteTimeout, rt.log.Named("remote"))
		rt.log.Debug("Using remote bridge", zap.String("url", remoteURL))
		return rt.remote, nil
	}

	h, err := host.NewPlatform(rt.cfg, rt.log.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize platform: %w", err)
	}
	rt.host = h
	rt.emitter = events.NewEmitter()
	rt.metrics = monitoring.NewMetrics()
	rt.native = bridge.NewNativeModule(bridge.Deps{
		Platform: h,
		CacheDir: rt.cfg.CacheDir,
		Workers:  rt.cfg.Watcher.Workers,
		Emitter:  rt.emitter,
		Metrics:  rt.metrics,
		Logger:   rt.log.Named("native"),
	})
	rt.log.Debug("Using local platform", zap.String("host", h.Name()))
	return rt.native, nil
}

// Close releases the module and flushes the logger
func (rt *runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if rt.native != nil {
		if err := rt.native.Close(ctx); err != nil {
			rt.log.Warn("Native module shutdown incomplete", zap.Error(err))
		}
	}
	if rt.host != nil {
		rt.host.Close()
	}
	if rt.remote != nil {
		rt.remote.Close()
	}
	rt.log.Sync()
}
