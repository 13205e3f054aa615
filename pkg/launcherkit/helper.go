package launcherkit

import (
	"context"
	"errors"
	"fmt"

	"Mansoor88-6/launcher-kit/internal/bridge"
	"Mansoor88-6/launcher-kit/internal/models"

	"go.uber.org/zap"
)

// ErrPackageNameRequired is logged when an empty identifier is launched
var ErrPackageNameRequired = errors.New("package name is required")

// Helper launches apps and reaches the launcher level system actions
type Helper struct {
	handle bridge.Handle
	logger *zap.Logger
}

func NewHelper(handle bridge.Handle, logger *zap.Logger) *Helper {
	return &Helper{handle: handle, logger: logger}
}

// LaunchApplication starts packageName with optional intent parameters.
// It reports whether the request was handed to the native side.
func (h *Helper) LaunchApplication(ctx context.Context, packageName string, params *models.LaunchParams) bool {
	if packageName == "" {
		h.logger.Warn("Cannot launch application", zap.Error(ErrPackageNameRequired))
		return false
	}
	m, ok := h.module("launch application")
	if !ok {
		return false
	}
	if err := m.LaunchApplication(ctx, packageName, params); err != nil {
		h.logger.Warn("Failed to launch application",
			zap.String("package_name", packageName),
			zap.Any("params", params),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (h *Helper) GoToSettings(ctx context.Context) {
	m, ok := h.module("open settings")
	if !ok {
		return
	}
	if err := m.GoToSettings(ctx); err != nil {
		h.logger.Warn("Failed to open settings", zap.Error(err))
	}
}

// CheckIfPackageInstalled returns false on any failure
func (h *Helper) CheckIfPackageInstalled(ctx context.Context, packageName string) bool {
	m, ok := h.module("check package")
	if !ok {
		return false
	}
	installed, err := m.IsPackageInstalled(ctx, packageName)
	if err != nil {
		h.logger.Warn("Failed to check if package is installed",
			zap.String("package_name", packageName),
			zap.Error(err),
		)
		return false
	}
	return installed
}

// GetDefaultLauncherPackageName returns "" on any failure
func (h *Helper) GetDefaultLauncherPackageName(ctx context.Context) string {
	m, ok := h.module("default launcher")
	if !ok {
		return ""
	}
	name, err := m.GetDefaultLauncherPackageName(ctx)
	if err != nil {
		h.logger.Warn("Error getting default launcher package name", zap.Error(err))
		return ""
	}
	return name
}

func (h *Helper) SetAsDefaultLauncher(ctx context.Context) bool {
	m, ok := h.module("set default launcher")
	if !ok {
		return false
	}
	if err := m.SetAsDefaultLauncher(ctx); err != nil {
		h.logger.Warn("Failed to open default apps settings", zap.Error(err))
		return false
	}
	return true
}

func (h *Helper) OpenAlarmApp(ctx context.Context) bool {
	m, ok := h.module("open alarm app")
	if !ok {
		return false
	}
	if err := m.OpenAlarmApp(ctx); err != nil {
		h.logger.Warn("Failed to open alarm app", zap.Error(err))
		return false
	}
	return true
}

// GetBatteryStatus returns a zero status on any failure
func (h *Helper) GetBatteryStatus(ctx context.Context) models.BatteryStatus {
	m, ok := h.module("battery status")
	if !ok {
		return models.BatteryStatus{}
	}
	status, err := m.GetBatteryStatus(ctx)
	if err != nil {
		h.logger.Warn("Failed to get battery status", zap.Error(err))
		return models.BatteryStatus{}
	}
	return status
}

// OpenSetDefaultLauncher opens the home app picker. Failures are logged
// and returned.
func (h *Helper) OpenSetDefaultLauncher(ctx context.Context) (bool, error) {
	m, err := h.handle.Module()
	if err == nil {
		var ok bool
		ok, err = m.OpenSetDefaultLauncher(ctx)
		if err == nil {
			return ok, nil
		}
	}
	h.logger.Error("Error opening set default launcher", zap.Error(err))
	return false, fmt.Errorf("open set default launcher: %w", err)
}

func (h *Helper) module(op string) (bridge.Module, bool) {
	m, err := h.handle.Module()
	if err != nil {
		h.logger.Warn("Bridge unavailable", zap.String("op", op), zap.Error(err))
		return nil, false
	}
	return m, true
}
