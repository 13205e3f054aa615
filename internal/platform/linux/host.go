package linux

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/platform/watch"

	"go.uber.org/zap"
)

// Config configures the XDG desktop host
type Config struct {
	// DataDirs lists the XDG data dirs in priority order. The first one is
	// treated as the user's data home; entries found there are not system apps.
	DataDirs           []string
	SysRoot            string // prefix for /sys and /etc, "/" when empty
	SettingsCommand    []string
	DefaultAppsCommand []string
	AlarmApp           string // desktop id of the alarm/clock app
	PollInterval       time.Duration
}

// DefaultDataDirs returns XDG_DATA_HOME followed by XDG_DATA_DIRS with the
// fallbacks of the base directory specification
func DefaultDataDirs() []string {
	home := os.Getenv("XDG_DATA_HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(h, ".local", "share")
		}
	}
	dirs := os.Getenv("XDG_DATA_DIRS")
	if dirs == "" {
		dirs = "/usr/local/share:/usr/share"
	}

	var out []string
	if home != "" {
		out = append(out, home)
	}
	for _, d := range strings.Split(dirs, ":") {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Host implements platform.Platform for the local XDG desktop
type Host struct {
	*watch.Poller

	cfg    Config
	cmd    Commander
	logger *zap.Logger
}

// New creates a desktop host
func New(cfg Config, cmd Commander, logger *zap.Logger) *Host {
	if len(cfg.DataDirs) == 0 {
		cfg.DataDirs = DefaultDataDirs()
	}
	if cfg.SysRoot == "" {
		cfg.SysRoot = "/"
	}
	if cmd == nil {
		cmd = ExecCommander{}
	}
	h := &Host{
		cfg:    cfg,
		cmd:    cmd,
		logger: logger,
	}
	h.Poller = watch.NewPoller(h.snapshot, cfg.PollInterval, logger.Named("watch"))
	return h
}

func (h *Host) Name() string {
	return platform.HostLinux
}

// DeviceID returns the machine id, falling back to the hostname
func (h *Host) DeviceID(ctx context.Context) (string, error) {
	data, err := os.ReadFile(filepath.Join(h.cfg.SysRoot, "etc", "machine-id"))
	if id := strings.TrimSpace(string(data)); err == nil && id != "" {
		return id, nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "", platform.Wrap(platform.KindUnknown, "device id", err)
	}
	return hostname, nil
}

func (h *Host) entries(ctx context.Context) ([]desktopEntry, error) {
	entries, err := scanDesktopEntries(ctx, h.cfg.DataDirs)
	if err != nil {
		return nil, platform.Wrap(platform.KindOf(err), "scan desktop entries", err)
	}
	return entries, nil
}

func (h *Host) entry(ctx context.Context, id string) (desktopEntry, error) {
	entries, err := h.entries(ctx)
	if err != nil {
		return desktopEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return desktopEntry{}, platform.NotFound("lookup desktop entry", "application "+id)
}

// activityOf carries the package metadata along so enumeration does not
// rescan the data dirs once per app
func activityOf(e desktopEntry) platform.ActivityInfo {
	info := packageInfoOf(e)
	return platform.ActivityInfo{
		PackageName: e.ID,
		Name:        e.Path,
		Label:       e.Name,
		IconRef:     e.Icon,
		Package:     &info,
	}
}

func (h *Host) QueryLauncherActivities(ctx context.Context) ([]platform.ActivityInfo, error) {
	entries, err := h.entries(ctx)
	if err != nil {
		return nil, err
	}
	var out []platform.ActivityInfo
	for _, e := range entries {
		if e.launchable() {
			out = append(out, activityOf(e))
		}
	}
	return out, nil
}

func (h *Host) LoadLabel(ctx context.Context, activity platform.ActivityInfo) string {
	if activity.Label != "" {
		return activity.Label
	}
	return activity.PackageName
}

func (h *Host) LoadIcon(ctx context.Context, activity platform.ActivityInfo) (platform.Drawable, error) {
	path, err := findIcon(h.cfg.DataDirs, activity.IconRef)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, platform.Wrap(platform.KindOf(err), "load icon", err)
	}
	return &platform.EncodedDrawable{Data: data}, nil
}

func (h *Host) GetPackageInfo(ctx context.Context, packageName string) (platform.PackageInfo, error) {
	e, err := h.entry(ctx, packageName)
	if err != nil {
		return platform.PackageInfo{}, err
	}
	return packageInfoOf(e), nil
}

func packageInfoOf(e desktopEntry) platform.PackageInfo {
	info := platform.PackageInfo{PackageName: e.ID, VersionName: e.Version}
	if e.System {
		info.Flags |= platform.FlagSystem
	}
	return info
}

func (h *Host) GetInstalledPackages(ctx context.Context) ([]platform.PackageInfo, error) {
	entries, err := h.entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]platform.PackageInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, packageInfoOf(e))
	}
	return out, nil
}

// ResolveLaunchActivity fails with KindNotFound for NoDisplay entries, the
// desktop counterpart of a package without a launcher activity
func (h *Host) ResolveLaunchActivity(ctx context.Context, packageName string) (platform.ActivityInfo, error) {
	e, err := h.entry(ctx, packageName)
	if err != nil {
		return platform.ActivityInfo{}, err
	}
	if !e.launchable() {
		return platform.ActivityInfo{}, platform.NotFound("resolve launch activity", "launcher entry of "+packageName)
	}
	return activityOf(e), nil
}

func (h *Host) snapshot(ctx context.Context) (map[string]struct{}, error) {
	entries, err := h.entries(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e.ID] = struct{}{}
	}
	return set, nil
}

var _ platform.Platform = (*Host)(nil)
