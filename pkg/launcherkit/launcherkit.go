// Package launcherkit is the client facade of the launcher bridge.
//
// Every call goes through a bridge.Handle. Failures never surface as
// errors, each operation falls back to a typed default instead (empty
// slice, empty string, false, zero BatteryStatus). The one exception is
// Helper.OpenSetDefaultLauncher.
package launcherkit

import (
	"Mansoor88-6/launcher-kit/internal/bridge"

	"go.uber.org/zap"
)

// Re-exported bridge types so callers outside this module can link a facade
type (
	Handle = bridge.Handle
	Module = bridge.Module
)

var (
	ErrNotLinked = bridge.ErrNotLinked
	Linked       = bridge.Linked
	Unlinked     = bridge.Unlinked
)

// Client bundles the two facades over one bridge
type Client struct {
	Apps   *InstalledApps
	Helper *Helper
}

// New creates both facades. logger may be nil.
func New(handle bridge.Handle, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		Apps:   NewInstalledApps(handle, logger),
		Helper: NewHelper(handle, logger),
	}
}

// GetAppsOptions selects the optional fields of each record
type GetAppsOptions struct {
	IncludeVersion     bool
	IncludeAccentColor bool
}

// DefaultGetAppsOptions is used when no options are given
var DefaultGetAppsOptions = GetAppsOptions{
	IncludeVersion:     false,
	IncludeAccentColor: false,
}

func mergeOptions(opts *GetAppsOptions) GetAppsOptions {
	merged := DefaultGetAppsOptions
	if opts != nil {
		merged = *opts
	}
	return merged
}
