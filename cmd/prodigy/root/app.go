package root

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"prodigy/internal/engine"
	"prodigy/internal/logger"
	"prodigy/internal/session"
	"prodigy/internal/storage"
)

func openDB(ctx context.Context) (*sql.DB, error) {
	path, err := storage.ResolveDBPath(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, path)
}

func loadCatalog() (*engine.Catalog, error) {
	if cfg.Engine.CatalogPath == "" {
		return engine.DefaultCatalog(), nil
	}
	data, err := os.ReadFile(cfg.Engine.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return engine.ParseCatalog(data)
}

// openSession wires config, storage and logging into a ready session.
func openSession(ctx context.Context) (*session.Session, *session.SQLGateway, func(), error) {
	log, err := logger.New(cfg.App.LogMode, cfg.App.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, nil, err
	}
	role, err := session.ParseRole(cfg.User.Role)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := openDB(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
		log.Sync()
	}

	gw := session.NewSQLGateway(db)
	sess, err := session.Open(ctx, gw, session.Identity{UserID: cfg.User.ID, Role: role}, session.Options{
		Logger: log,
		Engine: []engine.Option{
			engine.WithCatalog(cat),
			engine.WithLocation(loc),
			engine.WithDailyRange(cfg.Engine.DailyMin, cfg.Engine.DailyMax),
		},
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return sess, gw, cleanup, nil
}
