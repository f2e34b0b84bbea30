package utils

import (
	"fmt"
	"log"
)

// OpenStore connects the backend chosen in cfg.
func OpenStore(cfg Config) (RecordStore, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Println("using in-memory store; data is lost on exit")
		return NewMemoryStore(), nil
	case "redis":
		client, err := OpenRedisPool(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.StoreTimeout), nil
	case "postgres":
		pool, err := OpenDB(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, cfg.StoreTimeout), nil
	case "sqlite":
		db, err := OpenSQLite(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db, cfg.StoreTimeout), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

var (
	_ RecordStore = (*MemoryStore)(nil)
	_ RecordStore = (*SQLiteStore)(nil)
	_ RecordStore = (*RedisStore)(nil)
	_ RecordStore = (*PostgresStore)(nil)
)
