package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"horario/internal/document"
	"horario/internal/model"
)

// ErrNotFound is returned when a restaurant has no stored schedule.
var ErrNotFound = errors.New("schedule not found")

// ScheduleInfo describes a stored schedule without decoding it.
type ScheduleInfo struct {
	RestaurantID string
	UpdatedAt    time.Time
}

// GetDocument returns the raw stored document for restaurantID.
func (db *DB) GetDocument(ctx context.Context, restaurantID string) ([]byte, time.Time, error) {
	var (
		doc       string
		updatedAt time.Time
	)
	err := db.QueryRowContext(ctx,
		`SELECT document, updated_at FROM schedules WHERE restaurant_id = ?`,
		restaurantID,
	).Scan(&doc, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, restaurantID)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get schedule %s: %w", restaurantID, err)
	}
	return []byte(doc), updatedAt, nil
}

// GetSchedule loads and decodes the schedule for restaurantID. A stored
// document that does not decode fails with document.ErrInvalidFormat.
func (db *DB) GetSchedule(ctx context.Context, restaurantID string) (model.Schedule, error) {
	data, _, err := db.GetDocument(ctx, restaurantID)
	if err != nil {
		return model.Schedule{}, err
	}
	s, err := document.Decode(data)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("load schedule %s: %w", restaurantID, err)
	}
	return s, nil
}

// SaveSchedule stores s as restaurantID's document in a single upsert.
// The last save wins.
func (db *DB) SaveSchedule(ctx context.Context, restaurantID string, s model.Schedule) error {
	data, err := document.Encode(s)
	if err != nil {
		return fmt.Errorf("encode schedule %s: %w", restaurantID, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO schedules (restaurant_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(restaurant_id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`,
		restaurantID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save schedule %s: %w", restaurantID, err)
	}
	return nil
}

// DeleteSchedule removes restaurantID's document.
func (db *DB) DeleteSchedule(ctx context.Context, restaurantID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM schedules WHERE restaurant_id = ?`, restaurantID)
	if err != nil {
		return fmt.Errorf("delete schedule %s: %w", restaurantID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, restaurantID)
	}
	return nil
}

// ListSchedules returns every stored restaurant ordered by id.
func (db *DB) ListSchedules(ctx context.Context) ([]ScheduleInfo, error) {
	rows, err := db.QueryContext(ctx, `SELECT restaurant_id, updated_at FROM schedules ORDER BY restaurant_id`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []ScheduleInfo
	for rows.Next() {
		var info ScheduleInfo
		if err := rows.Scan(&info.RestaurantID, &info.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
