package linux

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"Mansoor88-6/launcher-kit/internal/platform"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Commander runs desktop helper programs
type Commander interface {
	// Output runs a command to completion and returns its stdout
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Start spawns a command without waiting for it
	Start(ctx context.Context, name string, args ...string) error
}

// ExecCommander runs commands through os/exec
type ExecCommander struct{}

func (ExecCommander) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", classifyExec(name, err, stderr.String())
	}
	return string(out), nil
}

func (ExecCommander) Start(_ context.Context, name string, args ...string) error {
	// launched apps outlive the request that started them
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return classifyExec(name, err, "")
	}
	go cmd.Wait()
	return nil
}

func classifyExec(name string, err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return platform.Wrap(platform.KindUnsupported, name, err)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return platform.Errorf(platform.KindOf(err), name, "%v: %s", err, msg)
	}
	return platform.Wrap(platform.KindOf(err), name, err)
}

// LaunchPackage starts a desktop entry through gtk-launch
func (h *Host) LaunchPackage(ctx context.Context, packageName string) error {
	if _, err := h.ResolveLaunchActivity(ctx, packageName); err != nil {
		return err
	}
	return h.cmd.Start(ctx, "gtk-launch", packageName)
}

// StartActivity maps an intent onto the desktop: a target package is
// launched with the intent data as argument, bare data is handed to xdg-open
func (h *Host) StartActivity(ctx context.Context, intent platform.Intent) error {
	switch {
	case intent.Package != "":
		if _, err := h.ResolveLaunchActivity(ctx, intent.Package); err != nil {
			return err
		}
		args := []string{intent.Package}
		if intent.Data != "" {
			args = append(args, intent.Data)
		}
		return h.cmd.Start(ctx, "gtk-launch", args...)
	case intent.Data != "":
		return h.cmd.Start(ctx, "xdg-open", intent.Data)
	default:
		return platform.Errorf(platform.KindUnsupported, "start activity", "intent %q has no desktop equivalent", intent.Action)
	}
}

// DefaultLauncher reports the handler of inode/directory, which is the
// closest desktop analogue of the HOME activity
func (h *Host) DefaultLauncher(ctx context.Context) (string, error) {
	out, err := h.cmd.Output(ctx, "xdg-mime", "query", "default", "inode/directory")
	if err != nil {
		return "", err
	}
	id := strings.TrimSuffix(strings.TrimSpace(out), ".desktop")
	if id == "" {
		return "", platform.NotFound("default launcher", "inode/directory handler")
	}
	return id, nil
}

func (h *Host) runConfigured(ctx context.Context, op string, command []string) error {
	if len(command) == 0 {
		return platform.Errorf(platform.KindUnsupported, op, "no command configured")
	}
	h.logger.Debug("Running desktop command",
		zap.String("op", op),
		zap.Strings("command", command),
	)
	return h.cmd.Start(ctx, command[0], command[1:]...)
}

func (h *Host) OpenDefaultAppsSettings(ctx context.Context) error {
	if len(h.cfg.DefaultAppsCommand) > 0 {
		return h.runConfigured(ctx, "open default apps settings", h.cfg.DefaultAppsCommand)
	}
	return h.runConfigured(ctx, "open default apps settings", h.cfg.SettingsCommand)
}

func (h *Host) OpenHomeSettings(ctx context.Context) error {
	return h.OpenDefaultAppsSettings(ctx)
}

func (h *Host) OpenSettings(ctx context.Context) error {
	return h.runConfigured(ctx, "open settings", h.cfg.SettingsCommand)
}

func (h *Host) OpenAlarms(ctx context.Context) error {
	if h.cfg.AlarmApp == "" {
		return platform.NotFound("open alarms", "alarm app")
	}
	return h.LaunchPackage(ctx, h.cfg.AlarmApp)
}

// Battery reads the first battery under /sys/class/power_supply
func (h *Host) Battery(ctx context.Context) (*platform.BatteryInfo, error) {
	const op = "battery"

	supplies := filepath.Join(doublestar.EscapeMeta(h.cfg.SysRoot), "sys", "class", "power_supply", "BAT*")
	matches, err := doublestar.FilepathGlob(supplies)
	if err != nil || len(matches) == 0 {
		return nil, platform.NotFound(op, "battery")
	}

	dir := matches[0]
	info := &platform.BatteryInfo{Level: -1, Scale: 100, Status: platform.BatteryUnknown}
	if data, err := os.ReadFile(filepath.Join(dir, "capacity")); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			info.Level = n
		}
	}
	if data, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
		info.Status = sysfsBatteryState(strings.TrimSpace(string(data)))
	}
	return info, nil
}

func sysfsBatteryState(status string) platform.BatteryState {
	switch status {
	case "Charging":
		return platform.BatteryCharging
	case "Discharging":
		return platform.BatteryDischarging
	case "Not charging":
		return platform.BatteryNotCharging
	case "Full":
		return platform.BatteryFull
	default:
		return platform.BatteryUnknown
	}
}
