package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Upsert writes the header and body in one transaction. The conditional
// inserts make concurrent same-user ingestions converge on a single row pair
// without a prior existence check.
func (r *PGRepo) Upsert(ctx context.Context, userID string, data ParsedProfile) (Profile, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Profile{}, fmt.Errorf("marshal profile data: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Profile{}, err
	}
	defer tx.Rollback()

	const upsertHeader = `
INSERT INTO profiles (id, user_id, title, template, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING id, user_id, title, template, created_at, updated_at`

	var p Profile
	err = tx.QueryRowContext(ctx, upsertHeader,
		uuid.NewString(), userID, DefaultTitle, DefaultTemplate,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.Template, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile header: %w", err)
	}

	const upsertBody = `
INSERT INTO profile_data (id, profile_id, data, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (profile_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := tx.ExecContext(ctx, upsertBody, uuid.NewString(), p.ID, payload); err != nil {
		return Profile{}, fmt.Errorf("upsert profile data: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// GetCurrent returns the caller's profile with its body.
func (r *PGRepo) GetCurrent(ctx context.Context, userID string) (Record, error) {
	const query = `
SELECT p.id, p.user_id, p.title, p.template, p.created_at, p.updated_at, d.data
FROM profiles p
JOIN profile_data d ON d.profile_id = p.id
WHERE p.user_id = $1
LIMIT 1`
	return r.scanRecord(r.DB.QueryRowContext(ctx, query, userID))
}

// GetByID returns a profile by ID, scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, profileID string) (Record, error) {
	const query = `
SELECT p.id, p.user_id, p.title, p.template, p.created_at, p.updated_at, d.data
FROM profiles p
JOIN profile_data d ON d.profile_id = p.id
WHERE p.id = $1 AND p.user_id = $2
LIMIT 1`
	return r.scanRecord(r.DB.QueryRowContext(ctx, query, profileID, userID))
}

// ListForUser returns all header+body pairs owned by the user.
func (r *PGRepo) ListForUser(ctx context.Context, userID string) ([]Record, error) {
	const query = `
SELECT p.id, p.user_id, p.title, p.template, p.created_at, p.updated_at, d.data
FROM profiles p
JOIN profile_data d ON d.profile_id = p.id
WHERE p.user_id = $1
ORDER BY p.updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecordFromRows(rows)
		if err != nil {
			// A corrupt body row is skipped, not fatal for the listing.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanRecord(row rowScanner) (Record, error) {
	rec, err := scanRecordFromRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func scanRecordFromRows(row rowScanner) (Record, error) {
	var rec Record
	var raw []byte
	var createdAt, updatedAt time.Time
	if err := row.Scan(&rec.Profile.ID, &rec.Profile.UserID, &rec.Profile.Title,
		&rec.Profile.Template, &createdAt, &updatedAt, &raw); err != nil {
		return Record{}, err
	}
	rec.Profile.CreatedAt = createdAt
	rec.Profile.UpdatedAt = updatedAt

	// A body that no longer decodes, or that lost its personal info, is
	// treated as absent rather than served corrupt.
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return Record{}, ErrNotFound
	}
	if rec.Data.PersonalInfo.Empty() {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
