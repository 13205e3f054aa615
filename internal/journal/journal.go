// Package journal keeps an audit trail of emitted app events.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Mansoor88-6/launcher-kit/internal/models"

	"go.uber.org/zap"
)

// Journal stores app events in the app_events table
type Journal struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates a journal on a migrated database
func New(db *sql.DB, logger *zap.Logger) *Journal {
	return &Journal{
		db:     db,
		logger: logger,
	}
}

// Append stores a batch of events in one transaction
func (j *Journal) Append(ctx context.Context, events []models.AppEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO app_events (device_id, event, package_name, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.DeviceID, e.Event, e.PackageName, e.Payload, createdAt.UTC()); err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	j.logger.Debug("App events journaled", zap.Int("count", len(events)))
	return nil
}

// Recent returns up to limit events, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]models.AppEvent, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, device_id, event, package_name, payload, created_at
		FROM app_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query app events: %w", err)
	}
	defer rows.Close()

	out := make([]models.AppEvent, 0, limit)
	for rows.Next() {
		var e models.AppEvent
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.Event, &e.PackageName, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan app event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of journaled events
func (j *Journal) Count(ctx context.Context) (int, error) {
	var count int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count app events: %w", err)
	}
	return count, nil
}

// Cleanup removes events older than olderThan
func (j *Journal) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := j.db.ExecContext(ctx, `DELETE FROM app_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup app events: %w", err)
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		j.logger.Info("Cleaned up old app events", zap.Int64("count", removed))
	}
	return removed, nil
}
