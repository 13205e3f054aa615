package bridge

import (
	"context"
	"encoding/json"

	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"
)

// Method names as used on the wire
const (
	MethodGetApps                           = "getApps"
	MethodIsPackageInstalled                = "isPackageInstalled"
	MethodStartListeningForAppInstallations = "startListeningForAppInstallations"
	MethodStopListeningForAppInstallations  = "stopListeningForAppInstallations"
	MethodStartListeningForAppRemovals      = "startListeningForAppRemovals"
	MethodStopListeningForAppRemovals       = "stopListeningForAppRemovals"
	MethodLaunchApplication                 = "launchApplication"
	MethodGetDefaultLauncherPackageName     = "getDefaultLauncherPackageName"
	MethodSetAsDefaultLauncher              = "setAsDefaultLauncher"
	MethodOpenSetDefaultLauncher            = "openSetDefaultLauncher"
	MethodGetBatteryStatus                  = "getBatteryStatus"
	MethodGoToSettings                      = "goToSettings"
	MethodOpenAlarmApp                      = "openAlarmApp"
)

// GetAppsArgs are the arguments of getApps
type GetAppsArgs struct {
	IncludeVersion     bool `json:"includeVersion"`
	IncludeAccentColor bool `json:"includeAccentColor"`
}

// PackageArgs are the arguments of isPackageInstalled
type PackageArgs struct {
	PackageName string `json:"packageName"`
}

// LaunchArgs are the arguments of launchApplication
type LaunchArgs struct {
	PackageName string               `json:"packageName"`
	Params      *models.LaunchParams `json:"params,omitempty"`
}

// Invoke calls a Module method by wire name. args is the JSON encoded
// argument object and may be empty for methods without arguments.
func Invoke(ctx context.Context, m Module, method string, args json.RawMessage) (interface{}, error) {
	decode := func(v interface{}) error {
		if len(args) == 0 {
			return nil
		}
		if err := json.Unmarshal(args, v); err != nil {
			return platform.Errorf(platform.KindUnknown, method, "invalid arguments: %v", err)
		}
		return nil
	}

	switch method {
	case MethodGetApps:
		var a GetAppsArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return m.GetApps(ctx, a.IncludeVersion, a.IncludeAccentColor)
	case MethodIsPackageInstalled:
		var a PackageArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return m.IsPackageInstalled(ctx, a.PackageName)
	case MethodStartListeningForAppInstallations:
		return nil, m.StartListeningForAppInstallations(ctx)
	case MethodStopListeningForAppInstallations:
		return nil, m.StopListeningForAppInstallations(ctx)
	case MethodStartListeningForAppRemovals:
		return nil, m.StartListeningForAppRemovals(ctx)
	case MethodStopListeningForAppRemovals:
		return nil, m.StopListeningForAppRemovals(ctx)
	case MethodLaunchApplication:
		var a LaunchArgs
		if err := decode(&a); err != nil {
			return nil, err
		}
		return nil, m.LaunchApplication(ctx, a.PackageName, a.Params)
	case MethodGetDefaultLauncherPackageName:
		return m.GetDefaultLauncherPackageName(ctx)
	case MethodSetAsDefaultLauncher:
		return nil, m.SetAsDefaultLauncher(ctx)
	case MethodOpenSetDefaultLauncher:
		return m.OpenSetDefaultLauncher(ctx)
	case MethodGetBatteryStatus:
		return m.GetBatteryStatus(ctx)
	case MethodGoToSettings:
		return nil, m.GoToSettings(ctx)
	case MethodOpenAlarmApp:
		return nil, m.OpenAlarmApp(ctx)
	default:
		return nil, platform.Errorf(platform.KindUnsupported, "invoke", "unknown method %q", method)
	}
}
