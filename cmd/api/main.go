package main

import (
	"net/http"
	"os"
	"time"

	"dairy-farm-records/internal/platform/logger"
	"dairy-farm-records/internal/router"
	"dairy-farm-records/internal/scheduler"
)

// @title       Dairy Farm Records API
// @version     1.0
// @description Registro de rebaño con agenda de eventos reproductivos y sanitarios.
// @BasePath    /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	store, err := router.NewStoreFromEnv(log)
	if err != nil {
		log.Error("storage init failed", map[string]any{"error": err})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{Log: log, Store: store})

	scanner := scheduler.NewOverdueScanner(store.Events, log)
	if err := scanner.Start(os.Getenv("OVERDUE_SCAN_CRON")); err != nil {
		log.Error("overdue scanner init failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer scanner.Stop()

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err})
		os.Exit(1)
	}
}
