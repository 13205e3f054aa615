package launcher

import (
	"context"

	"Mansoor88-6/launcher-kit/internal/platform"
)

// LauncherHelper opens the system screens used to pick the home app
type LauncherHelper struct {
	sys platform.System
}

func NewLauncherHelper(sys platform.System) *LauncherHelper {
	return &LauncherHelper{sys: sys}
}

// SetAsDefaultLauncher opens the default apps settings
func (h *LauncherHelper) SetAsDefaultLauncher(ctx context.Context) error {
	return h.sys.OpenDefaultAppsSettings(ctx)
}

// OpenSetDefaultLauncher opens the home app picker. Unlike the other
// actions its failure is reported to the caller.
func (h *LauncherHelper) OpenSetDefaultLauncher(ctx context.Context) (bool, error) {
	if err := h.sys.OpenHomeSettings(ctx); err != nil {
		return false, err
	}
	return true, nil
}
