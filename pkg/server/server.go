package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/de-tools/macro-atlas/pkg/handlers"
	"github.com/de-tools/macro-atlas/pkg/handlers/analysis"
	"github.com/de-tools/macro-atlas/pkg/handlers/data"
	macroatlasmiddleware "github.com/de-tools/macro-atlas/pkg/server/middleware"
	"github.com/de-tools/macro-atlas/pkg/store/client"
	"github.com/de-tools/macro-atlas/pkg/store/sqlite/snapshot"
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

type HealthChecker interface {
	Health(ctx context.Context) (*client.HealthResponse, error)
}

type Dependencies struct {
	Catalog    data.CatalogLoader
	Explorer   data.Explorer
	Snapshots  snapshot.Store
	Queries    analysis.QueryRunner
	Collection analysis.CollectionRunner
	Remote     HealthChecker
	Gatherer   prometheus.Gatherer
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

type healthResponse struct {
	Status string `json:"status"`
	API    string `json:"api"`
}

func ConfigureRouter(logger zerolog.Logger, deps Dependencies) *chi.Mux {
	dataHandler := data.NewHandler(deps.Catalog, deps.Explorer, deps.Snapshots)
	analysisHandler := analysis.NewHandler(deps.Queries, deps.Collection)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(macroatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", API: "healthy"}
		if _, err := deps.Remote.Health(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("analysis api health check failed")
			resp.API = "unreachable"
		}
		handlers.WriteJSON(w, r, http.StatusOK, resp)
	})
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", dataHandler.GetCatalog)
		r.Post("/catalog/reload", dataHandler.ReloadCatalog)

		r.Get("/explorer", dataHandler.GetPage)
		r.Get("/explorer/selection", dataHandler.GetSelection)
		r.Put("/explorer/selection", dataHandler.PutSelection)
		r.Post("/explorer/search", dataHandler.Search)
		r.Post("/explorer/snapshots", dataHandler.SaveSnapshot)

		r.Get("/snapshots", dataHandler.ListSnapshots)
		r.Get("/snapshots/{id}", dataHandler.GetSnapshot)
		r.Delete("/snapshots/{id}", dataHandler.DeleteSnapshot)

		r.Get("/query", analysisHandler.GetQuery)
		r.Post("/query", analysisHandler.SubmitQuery)

		r.Get("/collection", analysisHandler.GetCollection)
		r.Post("/collection/{source}", analysisHandler.TriggerCollection)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(logger, config.Dependencies)

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

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

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
