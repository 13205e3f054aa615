// Package appdetail turns a launchable activity into a decorated AppRecord.
package appdetail

import (
	"context"
	"image"

	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"

	"go.uber.org/zap"
)

// Builder decorates activities with icon, version and accent color
type Builder struct {
	pm     platform.PackageManager
	icons  *IconCache
	logger *zap.Logger
}

// NewBuilder creates a new record builder
func NewBuilder(pm platform.PackageManager, icons *IconCache, logger *zap.Logger) *Builder {
	return &Builder{
		pm:     pm,
		icons:  icons,
		logger: logger,
	}
}

// Build assembles one AppRecord. It never fails: every step degrades to
// its documented fallback and the cause is logged.
func (b *Builder) Build(ctx context.Context, activity platform.ActivityInfo, includeVersion, includeAccentColor bool) models.AppRecord {
	id := activity.PackageName
	record := models.AppRecord{
		Label:       b.pm.LoadLabel(ctx, activity),
		PackageName: id,
	}

	bitmap := b.rasterizeIcon(ctx, activity)
	if bitmap != nil {
		path, err := b.icons.Write(id, bitmap)
		if err != nil {
			b.logger.Warn("Failed to save app icon",
				zap.String("package_name", id),
				zap.String("kind", string(platform.KindOf(err))),
				zap.Error(err),
			)
		} else {
			record.Icon = models.StringPtr(models.IconScheme + path)
		}
	}

	if includeVersion {
		record.Version = models.StringPtr(b.version(ctx, activity))
	}

	if includeAccentColor && bitmap != nil {
		record.AccentColor = models.StringPtr(AccentColor(bitmap, models.DefaultAccentColor))
	}

	return record
}

func (b *Builder) rasterizeIcon(ctx context.Context, activity platform.ActivityInfo) image.Image {
	drawable, err := b.pm.LoadIcon(ctx, activity)
	if err != nil {
		b.logger.Debug("No icon for app",
			zap.String("package_name", activity.PackageName),
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
		return nil
	}

	bitmap, err := Rasterize(drawable)
	if err != nil {
		b.logger.Warn("Failed to rasterize app icon",
			zap.String("package_name", activity.PackageName),
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
		return nil
	}
	return bitmap
}

func (b *Builder) version(ctx context.Context, activity platform.ActivityInfo) string {
	id := activity.PackageName
	if activity.Package != nil {
		return versionOrUnknown(activity.Package.VersionName)
	}

	info, err := b.pm.GetPackageInfo(ctx, id)
	if err != nil {
		b.logger.Debug("Version lookup failed",
			zap.String("package_name", id),
			zap.String("kind", string(platform.KindOf(err))),
			zap.Error(err),
		)
		return models.UnknownVersion
	}
	return versionOrUnknown(info.VersionName)
}

func versionOrUnknown(v string) string {
	if v == "" {
		return models.UnknownVersion
	}
	return v
}
