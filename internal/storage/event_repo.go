package storage

import (
	"context"
	"fmt"
	"time"
)

type EventRepo struct {
	db Querier
}

func NewEventRepo(db Querier) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) Insert(ctx context.Context, ev EventRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO events (user_id, kind, ref, amount, note, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.UserID, ev.Kind, ev.Ref, ev.Amount, ev.Note, ev.At.UTC())
	if err != nil {
		return 0, fmt.Errorf("event insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("event last insert id: %w", err)
	}
	return id, nil
}

// ListRecent returns up to limit events for userID, newest first.
func (r *EventRepo) ListRecent(ctx context.Context, userID string, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, COALESCE(ref, ''), amount, COALESCE(note, ''), at
		FROM events
		WHERE user_id = ?
		ORDER BY at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("event list: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var ev EventRecord
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Kind, &ev.Ref, &ev.Amount, &ev.Note, &ev.At); err != nil {
			return nil, fmt.Errorf("event scan: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event rows: %w", err)
	}
	return out, nil
}

// CountSince counts events of kind for userID at or after since.
func (r *EventRepo) CountSince(ctx context.Context, userID, kind string, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM events
		WHERE user_id = ? AND kind = ? AND at >= ?
	`, userID, kind, since.UTC())
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("event count: %w", err)
	}
	return n, nil
}
