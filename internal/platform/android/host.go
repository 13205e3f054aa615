package android

import (
	"context"
	"strings"
	"time"

	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/platform/watch"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Config configures the adb host
type Config struct {
	Serial       string
	AAPTPath     string        // optional, enables real labels and icons
	WorkDir      string        // scratch space for pulled APKs
	PollInterval time.Duration // package watcher interval
}

// Host implements platform.Platform for a device behind adb
type Host struct {
	*watch.Poller

	adb    Runner
	cfg    Config
	logger *zap.Logger

	reads singleflight.Group
}

// New creates a host on top of an adb runner
func New(adb Runner, cfg Config, logger *zap.Logger) *Host {
	h := &Host{
		adb:    adb,
		cfg:    cfg,
		logger: logger,
	}
	h.Poller = watch.NewPoller(h.snapshot, cfg.PollInterval, logger.Named("watch"))
	return h
}

func (h *Host) Name() string {
	return platform.HostAndroid
}

func (h *Host) DeviceID(ctx context.Context) (string, error) {
	out, err := h.adb.Shell(ctx, "getprop", "ro.serialno")
	if id := strings.TrimSpace(out); err == nil && id != "" {
		return id, nil
	}
	if h.cfg.Serial != "" {
		return h.cfg.Serial, nil
	}
	if err == nil {
		err = platform.NotFound("device id", "ro.serialno")
	}
	return "", err
}

func (h *Host) QueryLauncherActivities(ctx context.Context) ([]platform.ActivityInfo, error) {
	out, err := h.adb.Shell(ctx, "cmd", "package", "query-activities", "--brief",
		"-a", platform.ActionMain, "-c", platform.CategoryLauncher)
	if err != nil {
		return nil, err
	}
	return parseComponents(out), nil
}

// LoadLabel prefers the APK label (when aapt is configured) and falls back
// to a label derived from the package name
func (h *Host) LoadLabel(ctx context.Context, activity platform.ActivityInfo) string {
	if activity.Label != "" {
		return activity.Label
	}
	if apk, err := h.apk(ctx, activity.PackageName); err == nil && apk.Label != "" {
		return apk.Label
	}
	return labelFromPackage(activity.PackageName)
}

func (h *Host) LoadIcon(ctx context.Context, activity platform.ActivityInfo) (platform.Drawable, error) {
	apk, err := h.apk(ctx, activity.PackageName)
	if err != nil {
		return nil, err
	}
	if len(apk.icon) == 0 {
		return nil, platform.NotFound("load icon", "raster icon of "+activity.PackageName)
	}
	return &platform.EncodedDrawable{Data: apk.icon}, nil
}

func (h *Host) GetPackageInfo(ctx context.Context, packageName string) (platform.PackageInfo, error) {
	if !ValidPackageName(packageName) {
		return platform.PackageInfo{}, platform.NotFound("get package info", "package "+packageName)
	}
	out, err := h.adb.Shell(ctx, "dumpsys", "package", packageName)
	if err != nil {
		return platform.PackageInfo{}, err
	}
	info, ok := parsePackageInfo(packageName, out)
	if !ok {
		return platform.PackageInfo{}, platform.NotFound("get package info", "package "+packageName)
	}
	return info, nil
}

func (h *Host) GetInstalledPackages(ctx context.Context) ([]platform.PackageInfo, error) {
	all, err := h.adb.Shell(ctx, "pm", "list", "packages")
	if err != nil {
		return nil, err
	}
	sys, err := h.adb.Shell(ctx, "pm", "list", "packages", "-s")
	if err != nil {
		return nil, err
	}

	system := make(map[string]bool)
	for _, name := range parsePackageList(sys) {
		system[name] = true
	}

	var out []platform.PackageInfo
	for _, name := range parsePackageList(all) {
		info := platform.PackageInfo{PackageName: name}
		if system[name] {
			info.Flags |= platform.FlagSystem
		}
		out = append(out, info)
	}
	return out, nil
}

func (h *Host) ResolveLaunchActivity(ctx context.Context, packageName string) (platform.ActivityInfo, error) {
	if !ValidPackageName(packageName) {
		return platform.ActivityInfo{}, platform.NotFound("resolve launch activity", "package "+packageName)
	}
	out, err := h.adb.Shell(ctx, "cmd", "package", "resolve-activity", "--brief",
		"-a", platform.ActionMain, "-c", platform.CategoryLauncher, packageName)
	if err != nil {
		return platform.ActivityInfo{}, err
	}
	for _, a := range parseComponents(out) {
		if a.PackageName == packageName {
			return a, nil
		}
	}
	return platform.ActivityInfo{}, platform.NotFound("resolve launch activity", "launcher activity of "+packageName)
}

func (h *Host) snapshot(ctx context.Context) (map[string]struct{}, error) {
	out, err := h.adb.Shell(ctx, "pm", "list", "packages")
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, name := range parsePackageList(out) {
		set[name] = struct{}{}
	}
	return set, nil
}

var _ platform.Platform = (*Host)(nil)
