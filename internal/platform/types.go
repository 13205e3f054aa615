package platform

import (
	"context"
)

// Platform bundles everything the native side needs from the host OS
type Platform interface {
	PackageManager
	BroadcastRegistrar
	System

	// Name identifies the host implementation ("android", "linux", ...)
	Name() string

	// DeviceID returns a stable identifier of the device being reflected
	DeviceID(ctx context.Context) (string, error)
}

// PackageManager answers questions about installed applications
type PackageManager interface {
	// QueryLauncherActivities returns every activity declaring itself as a
	// launcher entry point, in host order. A package may appear more than once.
	QueryLauncherActivities(ctx context.Context) ([]ActivityInfo, error)

	// LoadLabel returns the human readable label of an activity
	LoadLabel(ctx context.Context, activity ActivityInfo) string

	// LoadIcon returns the icon of an activity
	LoadIcon(ctx context.Context, activity ActivityInfo) (Drawable, error)

	// GetPackageInfo looks up package metadata; unknown packages yield KindNotFound
	GetPackageInfo(ctx context.Context, packageName string) (PackageInfo, error)

	// GetInstalledPackages lists every installed package, launchable or not
	GetInstalledPackages(ctx context.Context) ([]PackageInfo, error)

	// ResolveLaunchActivity resolves the launch entry point of a package.
	// Packages without one yield KindNotFound.
	ResolveLaunchActivity(ctx context.Context, packageName string) (ActivityInfo, error)
}

// BroadcastRegistrar delivers package broadcasts to registered receivers
type BroadcastRegistrar interface {
	RegisterReceiver(filter IntentFilter, receiver Receiver) error

	// UnregisterReceiver returns ErrReceiverNotRegistered for unknown receivers
	UnregisterReceiver(receiver Receiver) error
}

// System covers the one-shot OS actions exposed next to enumeration
type System interface {
	// LaunchPackage starts the default launch entry point of a package
	LaunchPackage(ctx context.Context, packageName string) error

	// StartActivity starts an explicit intent
	StartActivity(ctx context.Context, intent Intent) error

	// DefaultLauncher returns the package handling the HOME category
	DefaultLauncher(ctx context.Context) (string, error)

	OpenDefaultAppsSettings(ctx context.Context) error
	OpenHomeSettings(ctx context.Context) error
	OpenSettings(ctx context.Context) error

	// OpenAlarms yields KindNotFound when no alarm app is installed
	OpenAlarms(ctx context.Context) error
	Battery(ctx context.Context) (*BatteryInfo, error)
}

// ActivityInfo describes one launchable entry point
type ActivityInfo struct {
	PackageName string
	Name        string // activity class, desktop file path, ...
	Label       string // label known at query time, may be empty
	IconRef     string // host specific icon locator, may be empty

	// Package is set when the host already knows the package metadata at
	// query time; nil means it has to be looked up.
	Package *PackageInfo
}

// ApplicationFlags is a bitmask of application properties
type ApplicationFlags uint32

const (
	FlagSystem ApplicationFlags = 1 << iota
	FlagDisabled
)

// PackageInfo contains package level metadata
type PackageInfo struct {
	PackageName string
	VersionName string
	Flags       ApplicationFlags
}

// IsSystem reports whether the package belongs to the system image
func (p PackageInfo) IsSystem() bool {
	return p.Flags&FlagSystem != 0
}

// BatteryInfo is the raw battery reading of the host
type BatteryInfo struct {
	Level  int // -1 when unknown
	Scale  int // -1 when unknown
	Status BatteryState
}

// BatteryState mirrors the host charging state
type BatteryState string

const (
	BatteryUnknown     BatteryState = "unknown"
	BatteryCharging    BatteryState = "charging"
	BatteryDischarging BatteryState = "discharging"
	BatteryNotCharging BatteryState = "not_charging"
	BatteryFull        BatteryState = "full"
)
