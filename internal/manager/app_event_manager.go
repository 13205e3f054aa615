// Package manager watches package install and removal broadcasts and
// republishes them on the outward event channels.
package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"Mansoor88-6/launcher-kit/internal/appdetail"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/monitoring"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/workers"

	"go.uber.org/zap"
)

// AppEventManager owns the install and removal receivers
type AppEventManager struct {
	registrar platform.BroadcastRegistrar
	pm        platform.PackageManager
	builder   *appdetail.Builder
	sink      events.Sink
	pool      *workers.Pool
	metrics   *monitoring.Metrics
	logger    *zap.Logger

	install *packageReceiver
	removal *packageReceiver
}

// packageReceiver is one armable broadcast receiver
type packageReceiver struct {
	name    string
	filter  platform.IntentFilter
	handle  func(ctx context.Context, packageName string) error
	manager *AppEventManager

	mu    sync.Mutex
	armed bool
}

// NewAppEventManager creates a new manager. Nothing is armed until one of
// the Start methods is called.
func NewAppEventManager(
	p platform.Platform,
	builder *appdetail.Builder,
	sink events.Sink,
	workerCount int,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *AppEventManager {
	m := &AppEventManager{
		registrar: p,
		pm:        p,
		builder:   builder,
		sink:      sink,
		pool:      workers.NewPool("app-event-manager", workerCount, logger),
		metrics:   metrics,
		logger:    logger,
	}

	m.install = &packageReceiver{
		name:    "install",
		filter:  platform.IntentFilter{Action: platform.ActionPackageAdded, DataScheme: platform.SchemePackage},
		handle:  m.handleInstalled,
		manager: m,
	}
	m.removal = &packageReceiver{
		name:    "removal",
		filter:  platform.IntentFilter{Action: platform.ActionPackageRemoved, DataScheme: platform.SchemePackage},
		handle:  m.handleRemoved,
		manager: m,
	}
	return m
}

func (m *AppEventManager) StartListeningForAppInstallations() error {
	return m.install.arm()
}

func (m *AppEventManager) StopListeningForAppInstallations() error {
	return m.install.disarm()
}

func (m *AppEventManager) StartListeningForAppRemovals() error {
	return m.removal.arm()
}

func (m *AppEventManager) StopListeningForAppRemovals() error {
	return m.removal.disarm()
}

// Close disarms both receivers and waits for in-flight handlers until ctx
// is done
func (m *AppEventManager) Close(ctx context.Context) error {
	if err := m.install.disarm(); err != nil {
		m.logger.Warn("Failed to stop install receiver", zap.Error(err))
	}
	if err := m.removal.disarm(); err != nil {
		m.logger.Warn("Failed to stop removal receiver", zap.Error(err))
	}
	return m.pool.Shutdown(ctx)
}

func (m *AppEventManager) handleInstalled(ctx context.Context, packageName string) error {
	activity, err := m.pm.ResolveLaunchActivity(ctx, packageName)
	if err != nil {
		if platform.IsNotFound(err) {
			m.logger.Debug("Installed package is not launchable",
				zap.String("package_name", packageName),
			)
			return nil
		}
		return fmt.Errorf("resolve launch activity: %w", err)
	}

	record := m.builder.Build(ctx, activity, true, true)
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serialize app record: %w", err)
	}

	m.emit(models.EventAppInstalled, string(payload), packageName)
	return nil
}

func (m *AppEventManager) handleRemoved(_ context.Context, packageName string) error {
	m.emit(models.EventAppRemoved, packageName, packageName)
	return nil
}

func (m *AppEventManager) emit(event, payload, packageName string) {
	m.sink.Emit(event, payload)
	m.metrics.RecordEvent(event)
	m.logger.Info("App event emitted",
		zap.String("event", event),
		zap.String("package_name", packageName),
	)
}

func (r *packageReceiver) arm() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.armed {
		return nil
	}
	if r.manager.registrar == nil {
		return platform.Errorf(platform.KindUnsupported, "register "+r.name+" receiver", "no broadcast registrar available")
	}
	if err := r.manager.registrar.RegisterReceiver(r.filter, r); err != nil {
		return fmt.Errorf("register %s receiver: %w", r.name, err)
	}
	r.armed = true
	r.manager.logger.Info("Receiver armed", zap.String("receiver", r.name))
	return nil
}

func (r *packageReceiver) disarm() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.armed {
		return nil
	}
	r.armed = false

	err := r.manager.registrar.UnregisterReceiver(r)
	if errors.Is(err, platform.ErrReceiverNotRegistered) {
		r.manager.logger.Debug("Receiver was not registered", zap.String("receiver", r.name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("unregister %s receiver: %w", r.name, err)
	}
	r.manager.logger.Info("Receiver disarmed", zap.String("receiver", r.name))
	return nil
}

// OnReceive offloads the broadcast to the worker pool so that dispatch is
// never blocked by decoration
func (r *packageReceiver) OnReceive(_ context.Context, b platform.Broadcast) {
	m := r.manager
	packageName := b.SchemeSpecificPart()
	if packageName == "" {
		m.logger.Warn("Broadcast without package name",
			zap.String("receiver", r.name),
			zap.String("data", b.Data),
		)
		return
	}

	err := m.pool.Submit(func(ctx context.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				r.fail(packageName, platform.Errorf(platform.KindUnknown, r.name+" handler", "panic: %v", rec))
			}
		}()
		if err := r.handle(ctx, packageName); err != nil {
			r.fail(packageName, err)
		}
	})
	if err != nil {
		m.logger.Warn("Dropped broadcast",
			zap.String("receiver", r.name),
			zap.String("package_name", packageName),
			zap.Error(err),
		)
	}
}

func (r *packageReceiver) fail(packageName string, err error) {
	kind := platform.KindOf(err)
	r.manager.metrics.RecordHandlerFailure(string(kind))
	r.manager.logger.Error("Broadcast handler failed",
		zap.String("receiver", r.name),
		zap.String("package_name", packageName),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
}
