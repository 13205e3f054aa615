// Package bridge is the boundary between the native components and the
// client facade.
package bridge

import (
	"context"

	"Mansoor88-6/launcher-kit/internal/events"
	"Mansoor88-6/launcher-kit/internal/models"
)

// Module is the bridge contract. The native module never fails the
// soft-fail methods; remote implementations may return transport errors.
type Module interface {
	GetApps(ctx context.Context, includeVersion, includeAccentColor bool) (string, error)
	IsPackageInstalled(ctx context.Context, packageName string) (bool, error)

	StartListeningForAppInstallations(ctx context.Context) error
	StopListeningForAppInstallations(ctx context.Context) error
	StartListeningForAppRemovals(ctx context.Context) error
	StopListeningForAppRemovals(ctx context.Context) error

	LaunchApplication(ctx context.Context, packageName string, params *models.LaunchParams) error
	GetDefaultLauncherPackageName(ctx context.Context) (string, error)
	SetAsDefaultLauncher(ctx context.Context) error
	OpenSetDefaultLauncher(ctx context.Context) (bool, error)
	GetBatteryStatus(ctx context.Context) (models.BatteryStatus, error)
	GoToSettings(ctx context.Context) error
	OpenAlarmApp(ctx context.Context) error

	// Events is where onAppInstalled and onAppRemoved are delivered
	Events() events.Source
}
