package server

import (
	"text/template"
	"time"

	"github.com/dhiksjf/serverstat-hub/internal/geoip"
	"github.com/dhiksjf/serverstat-hub/internal/query"
	"github.com/dhiksjf/serverstat-hub/internal/storage"
)

// Server holds the dependencies, configuration, and runtime state required
// to handle HTTP requests.
type Server struct {
	// storage provides access to the persistent widget configuration layer.
	storage *storage.Repository

	// geoip resolves game server IPs to country codes.
	// It can be nil if the GeoIP database is not initialized.
	geoip *geoip.Provider

	// fetcher performs the live A2S queries behind the query endpoints.
	fetcher *query.Fetcher

	// widgetTmpl is the parsed widget HTML template from embedded assets.
	widgetTmpl *template.Template

	// allowedOrigins is a set of hashed CORS origins (using xxhash) that are
	// authorized to embed widgets. Empty plus allowAnyOrigin false means no
	// cross-origin access.
	allowedOrigins map[uint64]struct{}

	// authToken is the secret token required to access administrative API
	// endpoints. An empty token disables those endpoints entirely.
	authToken string

	// allowAnyOrigin short-circuits the origin whitelist when "*" was
	// configured.
	allowAnyOrigin bool

	// maxBody specifies the maximum allowed size (in bytes) for incoming
	// HTTP request bodies.
	maxBody int64

	// limitCount and limitWindow configure the per-IP hard rate limiter.
	limitCount  int
	limitWindow time.Duration

	// trustProxy indicates whether the server should trust headers like
	// X-Forwarded-For when determining the client's real IP address.
	trustProxy bool
}
