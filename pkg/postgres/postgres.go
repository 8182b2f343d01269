package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/db/migrations"
	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/exaring/otelpgx"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

// PgDatabase инкапсулирует подключение к PostgreSQL и управление миграциями.
type PgDatabase struct {
	Pool *pgxpool.Pool
	Dsn  string
}

func NewPgDatabase(pool *pgxpool.Pool, dsn string) *PgDatabase {
	return &PgDatabase{Pool: pool, Dsn: dsn}
}

// Connect устанавливает соединение с PostgreSQL по параметрам из конфигурации.
func Connect(ctx context.Context, cfg *cfg.PGDBCfg) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"

	db, err := ConnectDSN(ctx, cfg.DSN(), cfg.MaxConns)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return db, nil
}

// ConnectDSN создаёт пул с трассировкой запросов и проверяет соединение.
// maxConns <= 0 оставляет значение pgxpool по умолчанию.
func ConnectDSN(ctx context.Context, dsn string, maxConns int32) (*PgDatabase, error) {
	const op = "PgDatabase.ConnectDSN"

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	dbName := poolCfg.ConnConfig.Database
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer(
		otelpgx.WithTrimSQLInSpanName(),
		otelpgx.WithDisableQuerySpanNamePrefix(),
		otelpgx.WithSpanNameFunc(func(stmt string) string {
			fields := strings.Fields(stmt)
			if len(fields) == 0 {
				return dbName
			}
			return dbName + " " + strings.ToUpper(fields[0])
		}),
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	db := NewPgDatabase(pool, dsn)
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, e.Wrap(op, err)
	}

	return db, nil
}

func (db *PgDatabase) Ping(ctx context.Context) error {
	const op = "PgDatabase.Ping"

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close корректно закрывает пул соединений к базе данных.
func (db *PgDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// RunMigrations применяет ожидающие миграции, встроенные в бинарник (db/migrations).
func (db *PgDatabase) RunMigrations(logger logger.Logger) error {
	const (
		op                 = "PgDatabase.RunMigrations"
		driverName         = "pgx"
		databaseDriverName = "postgres"
		sourceName         = "iofs"
	)

	sqlDb, err := sql.Open(driverName, db.Dsn)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithInstance(sourceName, source, databaseDriverName, driver)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debugf("migrations: no change")
			return nil
		}
		return e.Wrap(op, err)
	}

	logger.Infof("migrations applied successfully")
	return nil
}
