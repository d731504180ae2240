package database

import (
	"context"
	"fmt"
	"time"
)

// timeLayout is fixed-width so stored timestamps compare correctly both
// lexicographically (in SQL) and as parsed times.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

var _ PetRepository = (*petRepository)(nil)

type petRepository struct {
	db *DB
}

func NewPetRepository(db *DB) PetRepository {
	return &petRepository{db: db}
}

// MergeBatch inserts ids not yet present, touches last_seen_at for every
// staged id and advances the last_refresh watermark, all in one
// transaction. Existing blobs are never overwritten: a listing's content
// stays frozen at first sighting, only its seen timestamp moves. Any
// failure rolls the whole merge back.
func (r *petRepository) MergeBatch(ctx context.Context, records []PetRecord, at time.Time) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := formatTime(at)

	// ON CONFLICT DO NOTHING skips only an already-present pet_id; any other
	// constraint violation, such as an invalid blob, still fails the merge.
	insertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pets (pet_id, blob, created_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (pet_id) DO NOTHING
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insertStmt.Close()

	touchStmt, err := tx.PrepareContext(ctx, `
		UPDATE pets SET last_seen_at = ? WHERE pet_id = ?
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare touch: %w", err)
	}
	defer touchStmt.Close()

	inserted, touched := 0, 0
	for _, record := range records {
		res, err := insertStmt.ExecContext(ctx, record.ID, record.Blob, ts, ts)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert pet %d: %w", record.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected > 0 {
			// A fresh insert already carries last_seen_at = ts.
			inserted++
			continue
		}
		if _, err := touchStmt.ExecContext(ctx, ts, record.ID); err != nil {
			return 0, 0, fmt.Errorf("failed to touch pet %d: %w", record.ID, err)
		}
		touched++
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES ('last_refresh', ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, ts); err != nil {
		return 0, 0, fmt.Errorf("failed to advance watermark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit merge: %w", err)
	}

	return inserted, touched, nil
}

func (r *petRepository) MarkRejected(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pets SET rejected_at = ? WHERE pet_id = ?
	`, formatTime(at), id)

	if err != nil {
		return fmt.Errorf("failed to mark pet rejected: %w", err)
	}

	return nil
}

func (r *petRepository) GetActivePets(ctx context.Context, regionPrefix string) ([]Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pet_id, blob, created_at, last_seen_at
		FROM pets
		WHERE last_seen_at >= (SELECT value FROM state WHERE key = 'last_refresh')
		  AND rejected_at IS NULL
		  AND json_extract(blob, '$.shelterId') LIKE ? || '%'
	`, regionPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get active pets: %w", err)
	}
	defer rows.Close()

	var pets []Pet
	for rows.Next() {
		var pet Pet
		var createdAt, lastSeenAt string
		if err := rows.Scan(&pet.ID, &pet.Blob, &createdAt, &lastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan pet row: %w", err)
		}
		if pet.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for pet %d: %w", pet.ID, err)
		}
		if pet.LastSeenAt, err = parseTime(lastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to parse last_seen_at for pet %d: %w", pet.ID, err)
		}
		pets = append(pets, pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pet rows: %w", err)
	}

	return pets, nil
}

func (r *petRepository) GetPetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pets").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get pet count: %w", err)
	}
	return count, nil
}

func (r *petRepository) GetPetStats(ctx context.Context) (total, active, rejected int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM pets),
			(SELECT COUNT(*) FROM pets
			 WHERE last_seen_at >= (SELECT value FROM state WHERE key = 'last_refresh')
			   AND rejected_at IS NULL),
			(SELECT COUNT(*) FROM pets WHERE rejected_at IS NOT NULL)
	`).Scan(&total, &active, &rejected)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get pet stats: %w", err)
	}

	return total, active, rejected, nil
}
