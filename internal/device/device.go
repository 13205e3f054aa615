package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IDSource reports the identifier of the reflected device
type IDSource interface {
	DeviceID(ctx context.Context) (string, error)
}

// DeviceManager resolves the device id stamped on journaled events
type DeviceManager struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDeviceManager creates a device manager. db may be nil, in which case
// generated ids are not persisted.
func NewDeviceManager(db *sql.DB, logger *zap.Logger) *DeviceManager {
	return &DeviceManager{db: db, logger: logger}
}

// GetOrGenerateDeviceID prefers the configured id, then the platform's own
// identifier, then an id stored by an earlier run, and finally generates a
// new UUID and stores it
func (dm *DeviceManager) GetOrGenerateDeviceID(ctx context.Context, existingID string, source IDSource) (string, error) {
	if existingID = strings.TrimSpace(existingID); existingID != "" {
		return existingID, nil
	}

	if source != nil {
		id, err := source.DeviceID(ctx)
		if err == nil && strings.TrimSpace(id) != "" {
			return strings.TrimSpace(id), nil
		}
		if err != nil {
			dm.logger.Debug("Platform device id unavailable", zap.Error(err))
		}
	}

	if dm.db == nil {
		return uuid.New().String(), nil
	}

	stored, err := dm.storedID(ctx)
	if err != nil {
		return "", err
	}
	if stored != "" {
		return stored, nil
	}

	id := uuid.New().String()
	if _, err := dm.db.ExecContext(ctx, `INSERT INTO device_info (id, device_id) VALUES (1, ?)`, id); err != nil {
		return "", fmt.Errorf("failed to store device id: %w", err)
	}
	dm.logger.Info("Generated device id", zap.String("device_id", id))
	return id, nil
}

func (dm *DeviceManager) storedID(ctx context.Context) (string, error) {
	var id string
	err := dm.db.QueryRowContext(ctx, `SELECT device_id FROM device_info WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}
	return id, nil
}
