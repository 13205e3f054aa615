// Package launcher implements launching apps and the launcher level
// system actions.
package launcher

import (
	"context"
	"fmt"
	"strings"

	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"

	"go.uber.org/zap"
)

const defaultFileType = "*/*"

// AppLauncher starts applications, optionally with intent parameters
type AppLauncher struct {
	sys    platform.System
	logger *zap.Logger
}

func NewAppLauncher(sys platform.System, logger *zap.Logger) *AppLauncher {
	return &AppLauncher{sys: sys, logger: logger}
}

// LaunchApplication starts a package. Without params the package's own
// launch entry point is used; otherwise an explicit intent is built.
func (l *AppLauncher) LaunchApplication(ctx context.Context, packageName string, params *models.LaunchParams) error {
	if packageName == "" {
		return platform.Errorf(platform.KindNotFound, "launch application", "package name is required")
	}

	var err error
	if params == nil {
		err = l.sys.LaunchPackage(ctx, packageName)
	} else {
		err = l.sys.StartActivity(ctx, BuildIntent(packageName, params))
	}
	if err != nil {
		return fmt.Errorf("launch %s: %w", packageName, err)
	}

	l.logger.Info("Application launched", zap.String("package_name", packageName))
	return nil
}

// DefaultLauncherPackageName returns the package currently handling HOME
func (l *AppLauncher) DefaultLauncherPackageName(ctx context.Context) (string, error) {
	return l.sys.DefaultLauncher(ctx)
}

// BuildIntent translates launch parameters into an explicit intent
func BuildIntent(packageName string, params *models.LaunchParams) platform.Intent {
	intent := platform.Intent{
		Action:  platform.ActionMain,
		Package: packageName,
		Flags:   platform.FlagActivityNewTask,
	}
	if params.Action != "" {
		intent.Action = params.Action
	}

	if data := params.Data; data != "" {
		switch {
		case strings.HasPrefix(data, "geo:"), isWebURL(data):
			intent.Action = platform.ActionView
			intent.Data = data
		case strings.HasPrefix(data, "file://"):
			intent.Data = data
			intent.Type = params.Type
			if intent.Type == "" {
				intent.Type = defaultFileType
			}
			intent.Flags |= platform.FlagGrantReadURIPermission
		default:
			intent.Data = data
		}
	}

	if len(params.Extras) > 0 {
		intent.Extras = make(map[string]string, len(params.Extras))
		for k, v := range params.Extras {
			intent.Extras[k] = v
		}
	}
	if params.Category != "" {
		intent.Categories = append(intent.Categories, params.Category)
	}
	return intent
}

func isWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
