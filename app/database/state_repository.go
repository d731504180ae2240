package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ StateRepository = (*stateRepository)(nil)

type stateRepository struct {
	db *DB
}

func NewStateRepository(db *DB) StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) GetLastRefresh(ctx context.Context) (time.Time, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM state WHERE key = 'last_refresh'
	`).Scan(&value)

	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get last refresh: %w", err)
	}

	t, err := parseTime(value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse last refresh: %w", err)
	}

	return t, true, nil
}

func (r *stateRepository) SetLastRefresh(ctx context.Context, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES ('last_refresh', ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, formatTime(at))

	if err != nil {
		return fmt.Errorf("failed to set last refresh: %w", err)
	}

	return nil
}
