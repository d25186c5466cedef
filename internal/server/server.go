package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"mis-reports/internal/export"
	"mis-reports/internal/registry"
	"mis-reports/internal/report"
	reportsmiddleware "mis-reports/internal/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Registry  *registry.Registry
	Generator *report.Generator
	Exporter  *export.Exporter
	CanExport func(moduleKey string) bool
	OrgName   string
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	h := NewHandler(config.Dependencies)

	return &WebAPI{
		router: h.Routes(&logger),
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: config.ShutdownTimeout,
	}
}

// Routes builds the API router.
func (h *Handler) Routes(logger *zerolog.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(reportsmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/modules", h.ListModules)
		r.Get("/modules/{module}/categories", h.ListCategories)
		r.Get("/reports/{module}/{category}", h.GenerateReport)
		r.Get("/reports/{module}/{category}/export/{format}", h.ExportReport)
	})

	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	shutdownTimeout := w.shutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	w.server.Handler = w.router

	serverErrors := make(chan error, 1)
	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
