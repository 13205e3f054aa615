package android

import (
	"context"
	"fmt"
	"sort"

	"Mansoor88-6/launcher-kit/internal/platform"
)

// Settings screens
const (
	actionSettings            = "android.settings.SETTINGS"
	actionHomeSettings        = "android.settings.HOME_SETTINGS"
	actionDefaultAppsSettings = "android.settings.MANAGE_DEFAULT_APPS_SETTINGS"
	actionShowAlarms          = "android.intent.action.SHOW_ALARMS"
)

func (h *Host) LaunchPackage(ctx context.Context, packageName string) error {
	if !ValidPackageName(packageName) {
		return platform.NotFound("launch package", "package "+packageName)
	}
	_, err := h.adb.Shell(ctx, "monkey", "-p", packageName, "-c", platform.CategoryLauncher, "1")
	return err
}

func (h *Host) StartActivity(ctx context.Context, intent platform.Intent) error {
	_, err := h.adb.Shell(ctx, amStartArgs(intent)...)
	return err
}

func (h *Host) DefaultLauncher(ctx context.Context) (string, error) {
	out, err := h.adb.Shell(ctx, "cmd", "package", "resolve-activity", "--brief",
		"-a", platform.ActionMain, "-c", platform.CategoryHome)
	if err != nil {
		return "", err
	}
	components := parseComponents(out)
	if len(components) == 0 {
		return "", platform.NotFound("default launcher", "home activity")
	}
	return components[len(components)-1].PackageName, nil
}

func (h *Host) OpenDefaultAppsSettings(ctx context.Context) error {
	return h.StartActivity(ctx, platform.Intent{
		Action: actionDefaultAppsSettings,
		Flags:  platform.FlagActivityNewTask,
	})
}

func (h *Host) OpenHomeSettings(ctx context.Context) error {
	return h.StartActivity(ctx, platform.Intent{
		Action: actionHomeSettings,
		Flags:  platform.FlagActivityNewTask | platform.FlagActivityClearTask | platform.FlagActivityExcludeFromRecents,
	})
}

func (h *Host) OpenSettings(ctx context.Context) error {
	return h.StartActivity(ctx, platform.Intent{
		Action: actionSettings,
		Flags:  platform.FlagActivityNewTask,
	})
}

// OpenAlarms resolves SHOW_ALARMS first so that a missing alarm app is a
// KindNotFound rather than a failed start
func (h *Host) OpenAlarms(ctx context.Context) error {
	out, err := h.adb.Shell(ctx, "cmd", "package", "resolve-activity", "--brief", "-a", actionShowAlarms)
	if err != nil {
		return err
	}
	if len(parseComponents(out)) == 0 {
		return platform.NotFound("open alarms", "alarm app")
	}
	return h.StartActivity(ctx, platform.Intent{
		Action: actionShowAlarms,
		Flags:  platform.FlagActivityNewTask,
	})
}

func (h *Host) Battery(ctx context.Context) (*platform.BatteryInfo, error) {
	out, err := h.adb.Shell(ctx, "dumpsys", "battery")
	if err != nil {
		return nil, err
	}
	info, ok := parseBattery(out)
	if !ok {
		return nil, platform.NotFound("battery", "battery state")
	}
	return info, nil
}

// amStartArgs renders an intent as `am start` arguments
func amStartArgs(intent platform.Intent) []string {
	args := []string{"am", "start"}
	if intent.Action != "" {
		args = append(args, "-a", intent.Action)
	}
	if intent.Data != "" {
		args = append(args, "-d", intent.Data)
	}
	if intent.Type != "" {
		args = append(args, "-t", intent.Type)
	}
	for _, c := range intent.Categories {
		args = append(args, "-c", c)
	}

	keys := make([]string, 0, len(intent.Extras))
	for k := range intent.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--es", k, intent.Extras[k])
	}

	if intent.Flags != 0 {
		args = append(args, "-f", fmt.Sprintf("0x%08x", uint32(intent.Flags)))
	}
	if intent.Package != "" {
		args = append(args, "-p", intent.Package)
	}
	return args
}
