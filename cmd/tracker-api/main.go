package main

import (
	"path/filepath"

	"pinmap-tracker/internal/api"
	"pinmap-tracker/internal/api/handler"
	"pinmap-tracker/internal/config"
	"pinmap-tracker/internal/model"
	"pinmap-tracker/internal/store"
	"pinmap-tracker/pkg/router"
)

// @title Pinmap Tracker API
// @version 1.0
// @description Tracks per-country pinball-location counts from the Pinball Map API.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := store.InitDB(cfg.Server.DBPath); err != nil {
		panic(err)
	}

	// Rebase the fixed artifact paths onto the configured data directory.
	spec := model.DefaultRunSpec()
	spec.CanonicalPath = filepath.Join(cfg.Server.DataDir, spec.CanonicalPath)
	spec.HistoryDir = filepath.Join(cfg.Server.DataDir, spec.HistoryDir)
	spec.HistoryCSVPath = filepath.Join(cfg.Server.DataDir, spec.HistoryCSVPath)
	spec.ChartPath = filepath.Join(cfg.Server.DataDir, spec.ChartPath)
	handler.Configure(spec)

	r := router.New()
	api.RegisterRoutes(r)
	r.Start(cfg.Server.Addr)
}
