// Package provider enumerates launchable applications.
package provider

import (
	"context"
	"encoding/json"
	"time"

	"Mansoor88-6/launcher-kit/internal/appdetail"
	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/monitoring"
	"Mansoor88-6/launcher-kit/internal/platform"
	"Mansoor88-6/launcher-kit/internal/workers"

	"go.uber.org/zap"
)

// AppInfoProvider lists installed apps. Every call runs on the provider's
// own worker pool and degrades to an empty result on failure.
type AppInfoProvider struct {
	pm      platform.PackageManager
	builder *appdetail.Builder
	pool    *workers.Pool
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewAppInfoProvider creates a new provider. pm may be nil when the host
// has no package manager; all queries then come back empty.
func NewAppInfoProvider(
	pm platform.PackageManager,
	builder *appdetail.Builder,
	workerCount int,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *AppInfoProvider {
	return &AppInfoProvider{
		pm:      pm,
		builder: builder,
		pool:    workers.NewPool("app-info-provider", workerCount, logger),
		metrics: metrics,
		logger:  logger,
	}
}

// ListApps returns one record per launchable package, in platform order.
// The first activity seen for a package wins.
func (p *AppInfoProvider) ListApps(ctx context.Context, includeVersion, includeAccentColor bool) []models.AppRecord {
	return run(ctx, p, []models.AppRecord{}, func(ctx context.Context) []models.AppRecord {
		return p.listApps(ctx, includeVersion, includeAccentColor)
	})
}

// GetApps returns ListApps serialized as a JSON array
func (p *AppInfoProvider) GetApps(ctx context.Context, includeVersion, includeAccentColor bool) string {
	data, err := json.Marshal(p.ListApps(ctx, includeVersion, includeAccentColor))
	if err != nil {
		p.logger.Error("Failed to serialize app list", zap.Error(err))
		return "[]"
	}
	return string(data)
}

// AllApps returns the identifiers of every installed package
func (p *AppInfoProvider) AllApps(ctx context.Context) []string {
	return run(ctx, p, []string{}, func(ctx context.Context) []string {
		return p.packages(ctx, false)
	})
}

// NonSystemApps returns the identifiers of packages not in the system image
func (p *AppInfoProvider) NonSystemApps(ctx context.Context) []string {
	return run(ctx, p, []string{}, func(ctx context.Context) []string {
		return p.packages(ctx, true)
	})
}

// IsPackageInstalled reports whether the package is known to the platform.
// Any lookup failure counts as not installed.
func (p *AppInfoProvider) IsPackageInstalled(ctx context.Context, packageName string) bool {
	if packageName == "" {
		return false
	}
	return run(ctx, p, false, func(ctx context.Context) bool {
		if p.pm == nil {
			return false
		}
		if _, err := p.pm.GetPackageInfo(ctx, packageName); err != nil {
			p.logger.Debug("Package lookup failed",
				zap.String("package_name", packageName),
				zap.String("kind", string(platform.KindOf(err))),
				zap.Error(err),
			)
			return false
		}
		return true
	})
}

// Close stops the worker pool, abandoning work still running when ctx ends
func (p *AppInfoProvider) Close(ctx context.Context) error {
	return p.pool.Shutdown(ctx)
}

func (p *AppInfoProvider) listApps(ctx context.Context, includeVersion, includeAccentColor bool) []models.AppRecord {
	start := time.Now()
	apps := []models.AppRecord{}

	if p.pm == nil {
		p.logger.Warn("No package manager available, returning no apps")
		return apps
	}

	activities, err := p.pm.QueryLauncherActivities(ctx)
	if err != nil {
		p.logger.Warn("Failed to query launcher activities",
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
		return apps
	}

	seen := make(map[string]struct{}, len(activities))
	for _, activity := range activities {
		if _, dup := seen[activity.PackageName]; dup {
			continue
		}
		seen[activity.PackageName] = struct{}{}

		apps = append(apps, p.builder.Build(ctx, activity, includeVersion, includeAccentColor))
	}

	p.metrics.RecordEnumeration(len(apps), time.Since(start))
	p.logger.Debug("Enumerated apps",
		zap.Int("count", len(apps)),
		zap.Duration("duration", time.Since(start)),
	)
	return apps
}

func (p *AppInfoProvider) packages(ctx context.Context, nonSystemOnly bool) []string {
	ids := []string{}
	if p.pm == nil {
		return ids
	}

	packages, err := p.pm.GetInstalledPackages(ctx)
	if err != nil {
		p.logger.Warn("Failed to list installed packages",
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
		return ids
	}

	for _, pkg := range packages {
		if nonSystemOnly && pkg.IsSystem() {
			continue
		}
		ids = append(ids, pkg.PackageName)
	}
	return ids
}

// run executes fn on the pool and waits for it. The caller's ctx only
// bounds the wait; the work itself is not cancelled.
func run[T any](ctx context.Context, p *AppInfoProvider, fallback T, fn func(ctx context.Context) T) T {
	result := make(chan T, 1)
	err := p.pool.Submit(func(taskCtx context.Context) {
		out := fallback
		defer func() { result <- out }()
		out = fn(taskCtx)
	})
	if err != nil {
		p.logger.Warn("Provider is closed", zap.Error(err))
		return fallback
	}

	select {
	case r := <-result:
		return r
	case <-p.pool.Done():
		select {
		case r := <-result:
			return r
		default:
			return fallback
		}
	case <-ctx.Done():
		p.logger.Debug("Caller stopped waiting for provider", zap.Error(ctx.Err()))
		return fallback
	}
}
