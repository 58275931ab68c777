// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool)
//   - wiring query tracing/logging (pgx tracelog, New Relic nrpgx5)
//   - opening the GORM session that repositories query through,
//     sharing the same pool
//   - running embedded tern migrations
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/go-memories/internal/config"
	loggerConfig "github.com/deppfellow/go-memories/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database wraps the pgx connection pool, the ORM session built on top of it,
// and a logger for lifecycle messages.
type Database struct {
	Pool *pgxpool.Pool

	// ORM is the GORM session used by repositories. It borrows connections
	// from Pool through database/sql, so pool limits apply to both.
	ORM *gorm.DB

	sqlDB *sql.DB
	log   *zerolog.Logger
}

// multiTracer fans pgx tracing out to several tracers.
//
// pgx supports a single Tracer in ConnConfig; this adapter runs the New Relic
// tracer and the local tracelog tracer together.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart calls every tracer that implements it, threading ctx through.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd calls every tracer that implements it.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is the number of seconds to wait for the startup ping.
const DatabasePingTimeout = 10

// DSN builds the postgres:// connection string for cfg.
//
// The password is URL-escaped and host/port are joined IPv6-safely.
func DSN(cfg *config.Config) string {
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))
	encodedPassword := url.QueryEscape(cfg.Database.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		encodedPassword,
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

// New creates a PostgreSQL connection pool with instrumentation and opens
// the ORM session on top of it.
//
// Behavior:
//   - Parse DSN into pgxpool config and apply pool tuning
//   - Attach New Relic tracer if available
//   - In local env: attach SQL tracelogger (and chain tracers if both exist)
//   - Create pool, ping it
//   - Open GORM through database/sql on the same pool
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if loggerService != nil && loggerService.GetApplication() != nil {
		pgxPoolConfig.ConnConfig.Tracer = nrpgx5.NewTracer()
	}

	// SQL query logging is noisy, so it is only enabled locally.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		}

		if pgxPoolConfig.ConnConfig.Tracer != nil {
			pgxPoolConfig.ConnConfig.Tracer = &multiTracer{
				tracers: []any{pgxPoolConfig.ConnConfig.Tracer, localTracer},
			}
		} else {
			pgxPoolConfig.ConnConfig.Tracer = localTracer
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Idle connections stay in the pgx pool; database/sql keeps none of its own.
	sqlDB := stdlib.OpenDBFromPool(pool)

	orm, err := OpenORM(postgres.New(postgres.Config{Conn: sqlDB}), *logger, cfg.Observability)
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open orm session: %w", err)
	}

	logger.Info().Msg("connected to the database")

	return &Database{
		Pool:  pool,
		ORM:   orm,
		sqlDB: sqlDB,
		log:   logger,
	}, nil
}

// OpenORM opens a GORM session on dialector with the zerolog adapter.
//
// Repository tests call it with an in-memory SQLite dialector.
func OpenORM(dialector gorm.Dialector, logger zerolog.Logger, obs *config.ObservabilityConfig) (*gorm.DB, error) {
	var slowThreshold time.Duration
	if obs != nil {
		slowThreshold = obs.Logging.SlowQueryThreshold
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:                 loggerConfig.NewGormLogger(logger, slowThreshold),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			// Postgres timestamptz keeps microseconds.
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
}

// Close closes the ORM handle and the connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	if db.sqlDB != nil {
		if err := db.sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close sql handle: %w", err)
		}
	}
	db.Pool.Close()
	return nil
}
