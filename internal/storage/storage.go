// Package storage builds the pokemon repository selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/pokedex/internal/config"
	"github.com/ignite/pokedex/internal/pkg/logger"
	"github.com/ignite/pokedex/internal/repository/dynamo"
	"github.com/ignite/pokedex/internal/repository/memory"
	"github.com/ignite/pokedex/internal/repository/postgres"
	redisrepo "github.com/ignite/pokedex/internal/repository/redis"
	"github.com/ignite/pokedex/internal/repository/sqlite"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

// ErrUnknownType is returned by New for an unsupported storage.type.
var ErrUnknownType = errors.New("unknown storage type")

// Backend is an opened repository plus the handles the health checker probes.
// DB is set for postgres and sqlite, Redis for redis.
type Backend struct {
	Type  string
	Repo  pokemon.Repository
	DB    *sql.DB
	Redis *redis.Client

	closers []func() error
}

// Close releases every connection opened by New.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New opens the backend named by cfg.Type. An empty type means memory.
func New(ctx context.Context, cfg config.StorageConfig) (*Backend, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = config.StorageMemory
	}
	b := &Backend{Type: storageType}

	switch storageType {
	case config.StorageMemory:
		b.Repo = memory.NewPokemonRepo()

	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.DB = db
		b.Repo = postgres.NewPokemonRepo(db)

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		b.DB = db.DB
		b.Repo = sqlite.NewPokemonRepo(db)

	case config.StorageRedis:
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		b.Redis = client
		b.Repo = redisrepo.NewPokemonRepo(client, cfg.RedisPrefix)

	case config.StorageDynamoDB:
		repo, err := dynamo.New(ctx, dynamo.Options{
			Table:           cfg.DynamoDB.Table,
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKey,
			SecretAccessKey: cfg.DynamoDB.SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing DynamoDB storage: %w", err)
		}
		b.Repo = repo

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}

	logger.Info("Storage initialized", "type", storageType)
	return b, nil
}

func openPostgres(ctx context.Context, dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, errors.New("postgres storage requires DATABASE_URL")
	}
	if !strings.Contains(dbURL, "connect_timeout") {
		sep := "?"
		if strings.Contains(dbURL, "?") {
			sep = "&"
		}
		dbURL += sep + "connect_timeout=5"
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(3)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres (%s): %w", logger.RedactURL(dbURL), err)
	}
	return db, nil
}

func openRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("redis storage requires REDIS_URL")
	}
	var client *redis.Client
	if opts, err := redis.ParseURL(redisURL); err == nil {
		client = redis.NewClient(opts)
	} else {
		// bare host:port
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis (%s): %w", logger.RedactURL(redisURL), err)
	}
	return client, nil
}
