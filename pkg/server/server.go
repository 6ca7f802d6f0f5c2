package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/climfin/finance-atlas/pkg/handlers/atlas"
	"github.com/climfin/finance-atlas/pkg/models/api"
	"github.com/climfin/finance-atlas/pkg/services/dashboard"

	atlasmiddleware "github.com/climfin/finance-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Dashboard dashboard.Service
	// Gatherer backs /metrics. It is omitted when nil.
	Gatherer prometheus.Gatherer
	// Ping reports backend health for /healthz.
	Ping func(ctx context.Context) error
	// Features is the size of the base geography.
	Features int
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	atlasHandler := handlers.NewHandler(config.Dependencies.Dashboard)

	router := chi.NewRouter()

	router.Use(atlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthz(config.Dependencies))
	if config.Dependencies.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Dependencies.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/map", atlasHandler.GetMap)
		r.Get("/countries/{code}", atlasHandler.GetCountry)
		r.Get("/countries/{code}/flows", atlasHandler.GetCountryFlows)
		r.Get("/volumes", atlasHandler.GetVolumes)
		r.Get("/taxonomy", atlasHandler.GetTaxonomy)
		r.Get("/export.csv", atlasHandler.ExportCSV)
	})

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
		shutdownTimeout: timeout,
	}
}

// Handler exposes the router, mainly for tests.
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func healthz(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if deps.Ping != nil {
			if err := deps.Ping(r.Context()); err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("backend ping failed")
				status, code = "unavailable", http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(api.Health{Status: status, Features: deps.Features}); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode health")
		}
	}
}
