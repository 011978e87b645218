package app

import (
	"context"
	"fmt"

	"postboard/config"
	"postboard/internal/adapter/out/storage/file"
	memstore "postboard/internal/adapter/out/storage/inmemory"
	pgstore "postboard/internal/adapter/out/storage/postgres"
	"postboard/internal/adapter/out/storage/redisstore"
	"postboard/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

// backend is the selected record store plus whatever has to be released
// with it.
type backend struct {
	service.DocumentStore
	close func()
}

func openStore(ctx context.Context, cfg config.Config) (*backend, error) {
	switch cfg.StorageType {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		store := pgstore.NewDocumentStore(pool, trmpgx.DefaultCtxGetter)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{DocumentStore: store, close: pool.Close}, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return &backend{
			DocumentStore: redisstore.NewDocumentStore(client, cfg.Redis.KeyPrefix),
			close:         func() { _ = client.Close() },
		}, nil

	case config.StorageMemory:
		return &backend{DocumentStore: memstore.NewDocumentStore(), close: func() {}}, nil

	default:
		return &backend{DocumentStore: file.NewDocumentStore(cfg.DataDir), close: func() {}}, nil
	}
}
