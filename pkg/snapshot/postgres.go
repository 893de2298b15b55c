package snapshot

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/pathway/pkg/logger"
	"github.com/dmitrymomot/pathway/pkg/routing"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres stores snapshots in the routing_snapshots table.
type Postgres struct {
	pool *pgxpool.Pool
}

// PostgresOption configures NewPostgres.
type PostgresOption func(*postgresOptions)

type postgresOptions struct {
	log            *slog.Logger
	migrationTable string
	migrate        bool
}

// WithMigrationTable sets the goose version table. Default: "pathway_schema_migrations".
func WithMigrationTable(name string) PostgresOption {
	return func(o *postgresOptions) {
		o.migrationTable = name
	}
}

// WithoutMigrations skips schema migration on start.
func WithoutMigrations() PostgresOption {
	return func(o *postgresOptions) {
		o.migrate = false
	}
}

// WithMigrationLogger sets the logger used for migration output.
func WithMigrationLogger(log *slog.Logger) PostgresOption {
	return func(o *postgresOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// NewPostgres creates a store on pool and brings the schema up to date.
// The pool lifecycle stays with the caller.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, opts ...PostgresOption) (*Postgres, error) {
	o := postgresOptions{
		log:            logger.NewNope(),
		migrationTable: "pathway_schema_migrations",
		migrate:        true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.migrate {
		if err := migrate(ctx, pool, o); err != nil {
			return nil, err
		}
	}
	return &Postgres{pool: pool}, nil
}

// ConnectPostgres opens a pool for url and pings it, retrying with a
// linear backoff.
func ConnectPostgres(ctx context.Context, url string, retry Retry) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	retry = retry.orDefault()
	var lastErr error
	for i := range retry.Attempts {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if i == retry.Attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*retry.Interval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func migrate(ctx context.Context, pool *pgxpool.Pool, o postgresOptions) error {
	// The sql.DB shares the pool's connections and must not be closed.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{o.log})
	goose.SetTableName(o.migrationTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrMigrate, err)
	}
	return nil
}

// Load returns the snapshot stored under key, or ErrNotFound.
func (p *Postgres) Load(ctx context.Context, key string) (*routing.Snapshot, error) {
	var body []byte
	err := p.pool.QueryRow(ctx, `SELECT body FROM routing_snapshots WHERE key = $1`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(body)
}

// Save upserts the snapshot stored under key.
func (p *Postgres) Save(ctx context.Context, key string, snap *routing.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO routing_snapshots (key, body)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		key, string(data),
	)
	return err
}

// Delete removes the snapshot stored under key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM routing_snapshots WHERE key = $1`, key)
	return err
}

// Ping checks the connection pool.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close is a no-op, the pool is closed by its owner.
func (p *Postgres) Close() error {
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf only logs; goose returns the error to the caller.
func (g gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}

var _ Store = (*Postgres)(nil)
