// cmd/server/server.go
package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/brandkit/internal/api"
	"github.com/codr1/brandkit/internal/api/themes"
	"github.com/codr1/brandkit/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithCacheControl,
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Tenant stylesheets and preview page
	mux.HandleFunc("GET /themes/{tenant}/stylesheet.css", themes.HandleStylesheet)
	mux.HandleFunc("GET /themes/{tenant}", themes.HandlePreviewPage)

	// Theme API
	mux.HandleFunc("GET /api/v1/themes", themes.HandleThemesList)
	mux.HandleFunc("POST /api/v1/themes/preview", themes.HandlePreview)
	mux.HandleFunc("GET /api/v1/themes/palette", themes.HandlePalette)
	mux.HandleFunc("GET /api/v1/themes/contrast", themes.HandleContrast)
	mux.HandleFunc("GET /api/v1/themes/typography", themes.HandleTypeScale)
	mux.HandleFunc("PUT /api/v1/tenants/{tenant}/theme", themes.HandleTenantThemeSet)

	// Static file handling with logging and environment awareness
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		// Default to the build directory if not specified
		staticDir = "build/bin/static"
	}
	fs := http.FileServer(http.Dir(staticDir))

	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
