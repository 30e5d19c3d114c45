package main

import (
	"net/http"
	"os"

	"fieldkeeper/internal/app/server/api"
	"fieldkeeper/internal/app/server/config"
	"fieldkeeper/internal/infrastructure/storage/postgres"
	"fieldkeeper/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	mux, err := api.New(storage, cfg, log)
	if err != nil {
		log.Error("api init failed", "error", err)
		os.Exit(1)
	}

	log.Info("server starting", "address", cfg.Server.RunAddress, "env", cfg.Env)
	if err := http.ListenAndServe(cfg.Server.RunAddress, mux); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
