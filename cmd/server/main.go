package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/sellerledger/reconciler/internal/api"
	"github.com/sellerledger/reconciler/internal/config"
	"github.com/sellerledger/reconciler/internal/pipeline"
	"github.com/sellerledger/reconciler/internal/repository"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Initializing run store at %s", cfg.Store.DSN)
	store, err := repository.Open(cfg.Store.DSN)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer store.Close()

	pipelineSvc := pipeline.NewService(store)
	router := api.NewRouter(pipelineSvc, store, cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Amazon Seller Report Reconciler")
	log.Printf("Listening on http://localhost%s", addr)
	log.Printf("API base: http://localhost%s/api/v1", addr)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/reports/process")
	log.Printf("  GET    /api/v1/runs/latest")
	log.Printf("  GET    /api/v1/runs/{id}/artifacts/{kind}")
	log.Printf("  POST   /api/v1/inventory/ledger")
	log.Printf("  GET    /api/v1/health")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
