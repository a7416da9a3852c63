package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/driftboard/driftboard/internal/config"
	"github.com/driftboard/driftboard/internal/logger"
	"github.com/driftboard/driftboard/internal/router"
	"github.com/driftboard/driftboard/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx := context.Background()
	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup(ctx)

	r := router.New(deps)

	port := cfg.Public.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		fmt.Sscan(envPort, &port)
	}

	addr := fmt.Sprintf(":%d", port)
	logger.Log.Info("server started", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
