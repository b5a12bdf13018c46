package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prodigy/internal/engine"
	"prodigy/internal/storage"
)

// Gateway persists one snapshot per user plus the engine's event log.
type Gateway interface {
	// Load returns the stored snapshot, or nil when the user has none.
	Load(ctx context.Context, userID string) ([]byte, error)
	// Save replaces the snapshot and appends events in a single transaction.
	Save(ctx context.Context, id Identity, version int, data []byte, events []engine.Event) error
}

type SQLGateway struct {
	db *sql.DB
}

func NewSQLGateway(db *sql.DB) *SQLGateway {
	return &SQLGateway{db: db}
}

func (g *SQLGateway) Load(ctx context.Context, userID string) ([]byte, error) {
	snap, err := storage.NewSnapshotRepo(g.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return snap.Data, nil
}

func (g *SQLGateway) Save(ctx context.Context, id Identity, version int, data []byte, events []engine.Event) error {
	return storage.WithTx(ctx, g.db, func(tx *sql.Tx) error {
		err := storage.NewSnapshotRepo(tx).Put(ctx, storage.Snapshot{
			UserID:    id.UserID,
			Version:   version,
			Data:      data,
			Role:      string(id.Role),
			UpdatedAt: time.Now(),
		})
		if err != nil {
			return err
		}
		repo := storage.NewEventRepo(tx)
		for _, ev := range events {
			if _, err := repo.Insert(ctx, storage.EventRecord{
				UserID: id.UserID,
				Kind:   string(ev.Kind),
				Ref:    ev.Ref,
				Amount: ev.Amount,
				Note:   ev.Note,
				At:     ev.At,
			}); err != nil {
				return fmt.Errorf("event log: %w", err)
			}
		}
		return nil
	})
}

// History returns the most recent logged events for userID.
func (g *SQLGateway) History(ctx context.Context, userID string, limit int) ([]storage.EventRecord, error) {
	return storage.NewEventRepo(g.db).ListRecent(ctx, userID, limit)
}
