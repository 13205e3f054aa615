package launcher

import (
	"context"

	"Mansoor88-6/launcher-kit/internal/models"
	"Mansoor88-6/launcher-kit/internal/platform"

	"go.uber.org/zap"
)

// SystemUtility covers battery, settings and the alarm app
type SystemUtility struct {
	sys    platform.System
	logger *zap.Logger
}

func NewSystemUtility(sys platform.System, logger *zap.Logger) *SystemUtility {
	return &SystemUtility{sys: sys, logger: logger}
}

// BatteryStatus reads the battery. Unknown level or scale reads as 0;
// charging and full both count as charging.
func (u *SystemUtility) BatteryStatus(ctx context.Context) (models.BatteryStatus, error) {
	info, err := u.sys.Battery(ctx)
	if err != nil {
		return models.BatteryStatus{}, err
	}
	return BatteryStatusFrom(info), nil
}

// BatteryStatusFrom converts a raw reading
func BatteryStatusFrom(info *platform.BatteryInfo) models.BatteryStatus {
	status := models.BatteryStatus{
		IsCharging: info.Status == platform.BatteryCharging || info.Status == platform.BatteryFull,
	}
	if info.Level >= 0 && info.Scale > 0 {
		status.Level = int(float64(info.Level) / float64(info.Scale) * 100)
	}
	return status
}

func (u *SystemUtility) GoToSettings(ctx context.Context) error {
	return u.sys.OpenSettings(ctx)
}

// OpenAlarmApp opens the alarm app. A missing alarm app is only logged.
func (u *SystemUtility) OpenAlarmApp(ctx context.Context) error {
	err := u.sys.OpenAlarms(ctx)
	if platform.IsNotFound(err) {
		u.logger.Warn("No app found to show alarms", zap.Error(err))
		return nil
	}
	return err
}
