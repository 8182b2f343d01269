package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/jitter"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/postgres"
	"github.com/DRSN-tech/catalog-backend/pkg/telemetry"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

// NewApp поднимает телеметрию, подключается к БД, применяет миграции и собирает HTTP-сервер.
// Ресурсы регистрируются в closer в порядке создания и закрываются в обратном.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	ctx := context.Background()
	cl := closer.NewCloser(0)

	if cfg.Telemetry.Enabled() {
		provider, err := telemetry.Init(ctx, cfg.Telemetry)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		cl.Add("telemetry", func(ctx context.Context) error {
			log.Infof("telemetry shutting down")
			return provider.Shutdown(ctx)
		})
		log.Infof("telemetry enabled, exporting to %s", cfg.Telemetry.Endpoint)
	}

	db, err := initPGDB(ctx, log, cfg)
	if err != nil {
		_ = cl.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("postgres", func(context.Context) error {
		db.Close()
		log.Infof("database pool closed")
		return nil
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())
	warrantyRepo := pgdb.NewWarrantyRepo(db.Pool, pgdbConv.NewWarrantyConverterImpl())

	warrantyManager := usecase.NewWarrantyManager(warrantyRepo, log)
	productUC := usecase.NewProductUC(productRepo, warrantyManager, tr.NewManager(db.Pool), log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log, cfg.Telemetry.ServiceName, cfg.Swagger)
	router.Init(productUC, db)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add("http server", func(ctx context.Context) error {
		log.Infof("HTTP server stopping")
		return httpSrv.Stop(ctx)
	})

	return &App{
		cfg:     cfg,
		logger:  log,
		closer:  cl,
		httpSrv: httpSrv,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		errCh <- a.httpSrv.Run()
	}()

	// === Ожидание сигнала или ошибки ===
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var appErr error
	select {
	case appErr = <-errCh:
		if appErr != nil {
			a.logger.Errorf(appErr, "HTTP server fatal error")
		}
	case <-ctx.Done():
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	const (
		connectAttempts = 5
		connectBackoff  = 500 * time.Millisecond
		connectMaxWait  = 5 * time.Second
	)

	var db *postgres.PgDatabase
	err := jitter.Retry(ctx, connectAttempts, connectBackoff, connectMaxWait,
		func(ctx context.Context) error {
			var err error
			db, err = postgres.Connect(ctx, cfg.Db)
			return err
		},
		func(attempt int, wait time.Duration, err error) {
			logger.Warnf("database is not ready (attempt %d/%d), retrying in %s: %v", attempt, connectAttempts, wait, err)
		},
	)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
