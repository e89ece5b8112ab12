// Package server implements the HTTP server, middleware, and request
// handlers for the application.
package server

import (
	"net/http"
	"text/template"

	"github.com/cespare/xxhash/v2"

	"github.com/dhiksjf/serverstat-hub/assets"
	"github.com/dhiksjf/serverstat-hub/internal/config"
	"github.com/dhiksjf/serverstat-hub/internal/geoip"
	"github.com/dhiksjf/serverstat-hub/internal/query"
	"github.com/dhiksjf/serverstat-hub/internal/storage"
)

// New creates a new Server instance with the provided storage, GeoIP
// provider, and configuration.
func New(store *storage.Repository, geo *geoip.Provider, cfg *config.Config) *Server {
	originMap := make(map[uint64]struct{})
	anyOrigin := false
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			anyOrigin = true
			continue
		}
		originMap[xxhash.Sum64String(origin)] = struct{}{}
	}

	fetcher := query.NewFetcher(cfg.Query.Timeout)
	fetcher.BufferSize = cfg.Query.BufferSize

	content, err := assets.ReadFile("widget.html")
	if err != nil {
		panic(err)
	}
	widgetTmpl := template.Must(template.New("widget").Parse(string(content)))

	return &Server{
		storage:        store,
		geoip:          geo,
		fetcher:        fetcher,
		widgetTmpl:     widgetTmpl,
		authToken:      cfg.Server.AuthToken,
		allowedOrigins: originMap,
		allowAnyOrigin: anyOrigin,
		maxBody:        cfg.Server.MaxBodySize,
		trustProxy:     cfg.Server.TrustProxy,
		limitCount:     cfg.RateLimit.Count,
		limitWindow:    cfg.RateLimit.Window,
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/query-server", http.HandlerFunc(s.handleQueryServer))
	mux.Handle("POST /api/query-servers", http.HandlerFunc(s.handleQueryServers))

	mux.Handle("POST /api/save-config", http.HandlerFunc(s.handleSaveConfig))
	mux.Handle("GET /api/config/{id}", http.HandlerFunc(s.handleGetConfig))
	mux.Handle("GET /api/server-status/{id}", http.HandlerFunc(s.handleServerStatus))
	mux.Handle("GET /api/widget/{id}", http.HandlerFunc(s.handleWidget))

	mux.Handle("GET /api/configs", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleListConfigs)))
	mux.Handle("DELETE /api/config/{id}", AdminAuthMiddleware(s.authToken, http.HandlerFunc(s.handleDeleteConfig)))

	mux.Handle("GET /api/version", http.HandlerFunc(s.handleVersion))

	return s.LoggingMiddleware(s.CORSMiddleware(s.RateLimitMiddleware(mux)))
}
