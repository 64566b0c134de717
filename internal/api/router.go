package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sellerledger/reconciler/internal/config"
	"github.com/sellerledger/reconciler/internal/pipeline"
	"github.com/sellerledger/reconciler/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(pipelineSvc *pipeline.Service, store *repository.RunStore, cfg *config.Config) http.Handler {
	h := &Handlers{
		pipelineSvc: pipelineSvc,
		store:       store,
		maxUpload:   cfg.Limits.MaxUploadBytes,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Pipeline.
		r.Post("/reports/process", h.ProcessReports)

		// Runs and artifact downloads.
		r.Get("/runs/latest", h.GetLatestRun)
		r.Get("/runs/{id}/artifacts/{kind}", h.DownloadArtifact)

		// Inventory ledger rollup.
		r.Post("/inventory/ledger", h.SummarizeLedger)

		r.Get("/health", h.Health)
	})

	return r
}
