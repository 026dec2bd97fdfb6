package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/infrastructure/config"
	"github.com/ElMonstro/Lean/internal/infrastructure/storage/composite"
	pgrepo "github.com/ElMonstro/Lean/internal/infrastructure/storage/postgres"
	redisrepo "github.com/ElMonstro/Lean/internal/infrastructure/storage/redis"
	sqliterepo "github.com/ElMonstro/Lean/internal/infrastructure/storage/sqlite"
)

var ErrStorageInitFailed = errors.New("storage initialization failed")

// Container owns the storage connections of a running host
type Container struct {
	cfg          *config.Config
	redisClient  *redis.Client
	redisRepo    *redisrepo.Repo
	sqliteRepo   *sqliterepo.Repo
	postgresRepo *pgrepo.Repo
	closeOnce    sync.Once
	closerChain  []func() error
}

func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg:         cfg,
		closerChain: make([]func() error, 0),
	}

	if err := c.initStorage(); err != nil {
		// release whatever was opened
		_ = c.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageInitFailed, err)
	}
	return c, nil
}

func (c *Container) initStorage() error {
	if c.cfg.Storage.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
	}
	if c.cfg.Storage.SQLite.Enabled {
		if err := c.initSQLite(); err != nil {
			return fmt.Errorf("sqlite init failed: %w", err)
		}
	}
	if c.cfg.Storage.Postgres.Enabled {
		if err := c.initPostgres(); err != nil {
			return fmt.Errorf("postgres init failed: %w", err)
		}
	}
	return nil
}

func (c *Container) initRedis() error {
	rcfg := c.cfg.Storage.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     rcfg.Addr,
		Password: rcfg.Password,
		DB:       rcfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	c.redisClient = rdb
	c.redisRepo = redisrepo.New(rdb, rcfg.Prefix, time.Duration(rcfg.TTLSeconds)*time.Second, rcfg.Stream, rcfg.Channel)

	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", rcfg.Addr).
		Int("db", rcfg.DB).
		Str("stream", c.redisRepo.Stream()).
		Msg("redis initialized")
	return nil
}

func (c *Container) initSQLite() error {
	repo, err := sqliterepo.New(c.cfg.Storage.SQLite.Path)
	if err != nil {
		return err
	}
	c.sqliteRepo = repo

	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Info().Str("path", c.cfg.Storage.SQLite.Path).Msg("sqlite initialized")
	return nil
}

func (c *Container) initPostgres() error {
	repo, err := pgrepo.New(c.cfg.Storage.Postgres.DSN)
	if err != nil {
		return err
	}
	c.postgresRepo = repo

	c.closerChain = append(c.closerChain, func() error {
		log.Info().Msg("closing postgres connection")
		return repo.Close()
	})

	log.Info().Msg("postgres initialized")
	return nil
}

func (c *Container) Config() *config.Config { return c.cfg }

func (c *Container) RedisClient() *redis.Client { return c.redisClient }

func (c *Container) RedisRepo() *redisrepo.Repo { return c.redisRepo }

func (c *Container) SQLiteRepo() *sqliterepo.Repo { return c.sqliteRepo }

func (c *Container) PostgresRepo() *pgrepo.Repo { return c.postgresRepo }

// Repository fans writes out to every enabled store. Closing it is the container's job.
func (c *Container) Repository() port.Repository {
	var repos []port.Repository
	if c.sqliteRepo != nil {
		repos = append(repos, nonClosing{c.sqliteRepo})
	}
	if c.postgresRepo != nil {
		repos = append(repos, nonClosing{c.postgresRepo})
	}
	if c.redisRepo != nil {
		repos = append(repos, c.redisRepo)
	}
	return composite.New(repos...)
}

// nonClosing leaves Close to the container's closer chain
type nonClosing struct {
	port.Repository
}

func (nonClosing) Close() error { return nil }

// Close releases resources in reverse order of creation
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if e := c.closerChain[i](); e != nil {
				log.Error().Err(e).Msg("error closing resource")
				if err == nil {
					err = e
				}
			}
		}
		log.Info().Msg("container closed")
	})
	return err
}
