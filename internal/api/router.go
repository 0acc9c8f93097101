package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pinmap-tracker/docs"
	"pinmap-tracker/internal/api/handler"
	"pinmap-tracker/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/*", handler.GetRun)

	r.GET("/api/v1/countries/latest", handler.GetLatestSnapshot)
	r.GET("/api/v1/countries/history", handler.GetHistory)

	r.Handle("/swagger/", httpSwagger.WrapHandler)
}
