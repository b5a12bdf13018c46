package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SnapshotRepo struct {
	db Querier
}

func NewSnapshotRepo(db Querier) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Get returns the stored snapshot for userID, or nil when there is none.
func (r *SnapshotRepo) Get(ctx context.Context, userID string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, version, data, COALESCE(role, 'user'), updated_at
		FROM snapshots
		WHERE user_id = ?
	`, userID)

	var s Snapshot
	var data string
	if err := row.Scan(&s.UserID, &s.Version, &data, &s.Role, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot get: %w", err)
	}
	s.Data = []byte(data)
	return &s, nil
}

// Put inserts or replaces the snapshot for s.UserID.
func (r *SnapshotRepo) Put(ctx context.Context, s Snapshot) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	if s.Role == "" {
		s.Role = "user"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, version, data, role, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			role = excluded.role,
			updated_at = excluded.updated_at
	`, s.UserID, s.Version, string(s.Data), s.Role, s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("snapshot put: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("snapshot delete: %w", err)
	}
	return nil
}

// ListUsers returns every user id with a stored snapshot, ordered by id.
func (r *SnapshotRepo) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM snapshots ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot list: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("snapshot scan: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot rows: %w", err)
	}
	return out, nil
}
