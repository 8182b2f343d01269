package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DRSN-tech/catalog-backend/docs" // сгенерированная swag спецификация
	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const healthPath = "/health"

// Pinger проверяет доступность хранилища для /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	router      *chi.Mux
	logger      logger.Logger
	serviceName string
	swagger     *cfg.SwaggerCfg
}

func NewRouter(router *chi.Mux, logger logger.Logger, serviceName string, swagger *cfg.SwaggerCfg) *Router {
	return &Router{
		router:      router,
		logger:      logger,
		serviceName: serviceName,
		swagger:     swagger,
	}
}

func (r *Router) Init(prUC usecase.ProductUC, db Pinger) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		otelHTTP(r.serviceName),
	)

	if r.swagger != nil && r.swagger.Enabled {
		docs.SwaggerInfo.Host = r.swagger.Host
		r.router.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", r.swagger.Host)), // ссылка на JSON
		))
	}

	r.router.Get(healthPath, healthHandler(db, r.logger))

	prHandler := NewProductHandler(prUC, r.logger)
	registerProductRoutes(r.router, prHandler)
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Patch("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
	})
}

// otelHTTP оборачивает запросы в спаны с именем по шаблону маршрута chi.
func otelHTTP(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				routePattern := ""
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					routePattern = rctx.RoutePattern()
				}
				if routePattern == "" {
					routePattern = r.URL.Path
				}
				return fmt.Sprintf("%s %s", r.Method, routePattern)
			}),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != healthPath
			}),
		)
	}
}

// healthHandler
//
//	@Summary	Проверка живости
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func healthHandler(db Pinger, logger logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			logger.Errorf(err, "health check failed")
			WriteSuccess(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}

		WriteSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
