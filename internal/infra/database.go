package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	pgxUUID "github.com/vgarvardt/pgx-google-uuid/v5"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/verdantis/storefront/internal/config"
	"github.com/verdantis/storefront/internal/log"
)

var (
	dbOnce sync.Once
	pool   *pgxpool.Pool
)

func NewDatabaseClient(c context.Context, dbConfig config.Database) *pgxpool.Pool {
	dbOnce.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main NewDatabaseClient").
			Logger()

		postgresUrl := fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=disable",
			dbConfig.Username,
			dbConfig.Password,
			dbConfig.Host,
			int(dbConfig.Port),
			dbConfig.Name,
		)

		logger = logger.With().Str(log.KeyProcess, "initializing pgx config").Logger()
		logger.Info().Msg("initializing pgx config")
		pgxConfig, err := pgxpool.ParseConfig(postgresUrl)
		if err != nil {
			err = fmt.Errorf("failed creating pgx config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer(
			otelpgx.WithAttributes(semconv.DBSystemPostgreSQL),
		)
		pgxConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
			pgxUUID.Register(conn.TypeMap())
			return nil
		}
		logger.Info().Msg("initialized pgx config")

		logger = logger.With().Str(log.KeyProcess, "creating connection pool").Logger()
		logger.Info().Msg("creating connection pool")
		pool, err = pgxpool.NewWithConfig(c, pgxConfig)
		if err != nil {
			err = fmt.Errorf("failed creating connection pool with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		if err = pool.Ping(c); err != nil {
			err = fmt.Errorf("failed ping db with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("created connection pool")

		logger = logger.With().Str(log.KeyProcess, "running migration").Logger()
		logger.Info().Msg("running migration")
		db := stdlib.OpenDBFromPool(pool)
		driver, err := postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			err = fmt.Errorf("failed creating postgres driver to do migration with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		migration, err := migrate.NewWithDatabaseInstance(dbConfig.MigrationPath, dbConfig.Name, driver)
		if err != nil {
			err = fmt.Errorf("failed initializing migration with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			err = fmt.Errorf("failed migration up with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("ran migration")

		db.SetConnMaxLifetime(time.Minute * 15)
		db.SetConnMaxIdleTime(time.Minute * 5)
		db.SetMaxOpenConns(dbConfig.MaxConnections)
		db.SetMaxIdleConns(dbConfig.MinConnections)

		logger.Info().Msg("connected to database")
	})
	return pool
}
