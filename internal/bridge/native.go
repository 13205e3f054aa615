package bridge

import (
	"context"
	"errors"

	"Mansoor88-6/launcher-kit/internal/appdetail"
	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/launcher"
	"Mansoor88-6/launcher-kit/internal/manager"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/monitoring"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/provider"

	"go.uber.org/zap"
)

// Deps are the explicit dependencies of the native module
type Deps struct {
	Platform platform.Platform
	CacheDir string
	Workers  int

	// Emitter receives the outward events; a new one is created when nil
	Emitter *events.Emitter
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// NativeModule implements Module in process on top of a platform
type NativeModule struct {
	platform platform.Platform
	provider *provider.AppInfoProvider
	manager  *manager.AppEventManager
	launcher *launcher.AppLauncher
	helper   *launcher.LauncherHelper
	system   *launcher.SystemUtility
	emitter  *events.Emitter
	logger   *zap.Logger
}

func NewNativeModule(deps Deps) *NativeModule {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	emitter := deps.Emitter
	if emitter == nil {
		emitter = events.NewEmitter()
	}

	p := deps.Platform
	icons := appdetail.NewIconCache(deps.CacheDir)

	return &NativeModule{
		platform: p,
		provider: provider.NewAppInfoProvider(
			p,
			appdetail.NewBuilder(p, icons, logger.Named("enumerator")),
			deps.Workers,
			deps.Metrics,
			logger.Named("enumerator"),
		),
		manager: manager.NewAppEventManager(
			p,
			appdetail.NewBuilder(p, icons, logger.Named("watcher")),
			emitter,
			deps.Workers,
			deps.Metrics,
			logger.Named("watcher"),
		),
		launcher: launcher.NewAppLauncher(p, logger.Named("launcher")),
		helper:   launcher.NewLauncherHelper(p),
		system:   launcher.NewSystemUtility(p, logger.Named("system")),
		emitter:  emitter,
		logger:   logger,
	}
}

func (n *NativeModule) GetApps(ctx context.Context, includeVersion, includeAccentColor bool) (string, error) {
	return n.provider.GetApps(ctx, includeVersion, includeAccentColor), nil
}

func (n *NativeModule) IsPackageInstalled(ctx context.Context, packageName string) (bool, error) {
	return n.provider.IsPackageInstalled(ctx, packageName), nil
}

// AllApps and NonSystemApps are native only, they are not part of Module

func (n *NativeModule) AllApps(ctx context.Context) []string {
	return n.provider.AllApps(ctx)
}

func (n *NativeModule) NonSystemApps(ctx context.Context) []string {
	return n.provider.NonSystemApps(ctx)
}

func (n *NativeModule) StartListeningForAppInstallations(context.Context) error {
	return n.manager.StartListeningForAppInstallations()
}

func (n *NativeModule) StopListeningForAppInstallations(context.Context) error {
	return n.manager.StopListeningForAppInstallations()
}

func (n *NativeModule) StartListeningForAppRemovals(context.Context) error {
	return n.manager.StartListeningForAppRemovals()
}

func (n *NativeModule) StopListeningForAppRemovals(context.Context) error {
	return n.manager.StopListeningForAppRemovals()
}

// LaunchApplication logs launch failures instead of returning them
func (n *NativeModule) LaunchApplication(ctx context.Context, packageName string, params *models.LaunchParams) error {
	err := n.requireSystem("launch application")
	if err == nil {
		err = n.launcher.LaunchApplication(ctx, packageName, params)
	}
	if err != nil {
		n.logger.Error("Failed to launch application",
			zap.String("package_name", packageName),
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
	}
	return nil
}

// requireSystem fails the system actions when the module runs without a
// platform; enumeration copes with that on its own by failing empty
func (n *NativeModule) requireSystem(op string) error {
	if n.platform == nil {
		return platform.Errorf(platform.KindUnsupported, op, "no platform available")
	}
	return nil
}

func (n *NativeModule) GetDefaultLauncherPackageName(ctx context.Context) (string, error) {
	if err := n.requireSystem("default launcher"); err != nil {
		return "", err
	}
	return n.launcher.DefaultLauncherPackageName(ctx)
}

func (n *NativeModule) SetAsDefaultLauncher(ctx context.Context) error {
	if err := n.requireSystem("set default launcher"); err != nil {
		return err
	}
	return n.helper.SetAsDefaultLauncher(ctx)
}

func (n *NativeModule) OpenSetDefaultLauncher(ctx context.Context) (bool, error) {
	if err := n.requireSystem("open set default launcher"); err != nil {
		return false, err
	}
	return n.helper.OpenSetDefaultLauncher(ctx)
}

func (n *NativeModule) GetBatteryStatus(ctx context.Context) (models.BatteryStatus, error) {
	if err := n.requireSystem("battery status"); err != nil {
		return models.BatteryStatus{}, err
	}
	return n.system.BatteryStatus(ctx)
}

func (n *NativeModule) GoToSettings(ctx context.Context) error {
	if err := n.requireSystem("open settings"); err != nil {
		return err
	}
	return n.system.GoToSettings(ctx)
}

func (n *NativeModule) OpenAlarmApp(ctx context.Context) error {
	if err := n.requireSystem("open alarm app"); err != nil {
		return err
	}
	return n.system.OpenAlarmApp(ctx)
}

func (n *NativeModule) Events() events.Source {
	return n.emitter
}

// Emitter exposes the concrete emitter so observers can tap every channel
func (n *NativeModule) Emitter() *events.Emitter {
	return n.emitter
}

// Close disarms the watcher and stops both worker pools
func (n *NativeModule) Close(ctx context.Context) error {
	return errors.Join(
		n.manager.Close(ctx),
		n.provider.Close(ctx),
	)
}

var _ Module = (*NativeModule)(nil)
