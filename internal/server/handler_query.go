package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dhiksjf/serverstat-hub/internal/models"
	"github.com/dhiksjf/serverstat-hub/internal/query"
)

// maxBatchSize caps a single batch request to keep the concurrent fan-out
// bounded.
const maxBatchSize = 64

// handleQueryServer performs a live A2S query to a single game server.
// Body: {"host": "1.2.3.4", "port": 27015}
func (s *Server) handleQueryServer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	res := s.fetcher.Fetch(req.Host, req.Port)
	s.enrichCountry(&res)

	writeJSON(w, statusFor(res), res)
}

// handleQueryServers performs concurrent live queries against a list of
// servers. Body: {"servers": [{"host": ..., "port": ...}, ...]}
// The response maps "host:port" keys to per-server results; one dead server
// never affects the others.
func (s *Server) handleQueryServers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req models.BatchQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if len(req.Servers) == 0 {
		http.Error(w, "No servers given", http.StatusBadRequest)
		return
	}
	if len(req.Servers) > maxBatchSize {
		http.Error(w, "Too many servers in one batch", http.StatusBadRequest)
		return
	}

	servers := make([]query.HostPort, 0, len(req.Servers))
	for _, entry := range req.Servers {
		servers = append(servers, query.HostPort{Host: entry.Host, Port: entry.Port})
	}

	results := s.fetcher.FetchMany(servers)
	for key, res := range results {
		s.enrichCountry(&res)
		results[key] = res
	}

	writeJSON(w, http.StatusOK, results)
}

// enrichCountry attaches the GeoIP country code of the resolved server IP
// to a successful result.
func (s *Server) enrichCountry(res *query.Result) {
	if !res.OK || res.Data == nil {
		return
	}

	res.Data.CountryCode = s.geoip.GetCountryCode(res.Data.ResolvedIP)
}

// statusFor maps a query outcome to an HTTP status code: bad input is the
// caller's fault, everything else is the upstream server's.
func statusFor(res query.Result) int {
	switch {
	case res.OK:
		return http.StatusOK
	case res.ErrorKind == query.KindInvalidAddress:
		return http.StatusBadRequest
	default:
		return http.StatusGatewayTimeout
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}
