package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	qaapidocs "github.com/janhq/qa-api/docs/swagger"
	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/infrastructure/database"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/routes"
)

const readinessTimeout = 2 * time.Second

// HTTPServer serves the public API, probes, metrics and Swagger UI.
type HTTPServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New assembles the middleware chain and mounts every route. db backs the
// readiness probe and may be nil.
func New(cfg *config.Config, log zerolog.Logger, db *gorm.DB, handlerProvider *handlers.Provider) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	qaapidocs.SwaggerInfo.BasePath = "/"

	engine := gin.New()
	engine.Use(gin.Recovery(), middlewares.RequestID())
	if cfg.EnableTracing {
		engine.Use(middlewares.TracingMiddleware(cfg.ServiceName))
	}
	engine.Use(
		middlewares.LoggingMiddleware(log),
		middlewares.MetricsMiddleware(),
		middlewares.CORSMiddleware(cfg.CORSOrigins),
	)

	engine.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"Hello": "World"}) })
	engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	engine.GET("/readyz", readiness(db))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	routes.NewProvider(handlerProvider).Register(engine)

	return &HTTPServer{cfg: cfg, engine: engine, log: log}
}

func readiness(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
			defer cancel()
			if err := database.Ping(ctx, db); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// Handler returns the gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run listens on HTTP_PORT until ctx is done, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	return listen(ctx, &http.Server{Addr: s.cfg.Addr(), Handler: s.engine}, s.cfg.ShutdownTimeout, s.log.With().Str("listener", "api").Logger())
}

// RunMetrics serves /metrics on METRICS_PORT. Without a metrics port it
// returns nil at once and /metrics stays on the API listener only.
func RunMetrics(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	addr := cfg.MetricsAddr()
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return listen(ctx, &http.Server{Addr: addr, Handler: mux}, cfg.ShutdownTimeout, log.With().Str("listener", "metrics").Logger())
}

func listen(ctx context.Context, server *http.Server, drain time.Duration, log zerolog.Logger) error {
	failed := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err, ok := <-failed:
		if ok {
			log.Error().Err(err).Msg("listener failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("drain", drain).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
