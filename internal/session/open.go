package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
)

// OpenBackend builds the backend named by cfg.SessionBackend. The returned func releases its connections.
func OpenBackend(ctx context.Context, cfg config.Config) (Backend, func() error, error) {
	switch cfg.SessionBackend {
	case "memory":
		return NewMemoryBackend(), func() error { return nil }, nil

	case "sql":
		db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		b, err := NewGormBackend(db)
		if err != nil {
			_ = pkgdb.Close(db)
			return nil, nil, err
		}
		return b, func() error { return pkgdb.Close(db) }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisBackend(client), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}
