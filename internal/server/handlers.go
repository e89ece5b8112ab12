package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dhiksjf/serverstat-hub/internal/models"
	"github.com/dhiksjf/serverstat-hub/internal/query"
	"github.com/dhiksjf/serverstat-hub/internal/vars"
)

// handleVersion returns build metadata.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vars.Info())
}

// handleSaveConfig stores a new widget configuration and returns it with its
// generated ID.
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var cfg models.WidgetConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if cfg.ServerHost == "" {
		http.Error(w, "Missing server_host", http.StatusBadRequest)
		return
	}
	if cfg.ServerPort < query.MinPort || cfg.ServerPort > query.MaxPort {
		http.Error(w, "Invalid server_port", http.StatusBadRequest)
		return
	}

	cfg.ID = uuid.NewString()
	cfg.CreatedAt = time.Now().UTC()
	cfg.ApplyDefaults()

	if err := s.storage.SaveConfig(cfg); err != nil {
		log.Error().Err(err).Msg("Failed to save widget config")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("config_id", cfg.ID).
		Str("host", cfg.ServerHost).
		Int("port", cfg.ServerPort).
		Msg("Widget config saved")

	writeJSON(w, http.StatusOK, cfg)
}

// handleGetConfig returns a stored widget configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.loadConfig(w, r)
	if cfg == nil {
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// statusResponse is the body of the widget status endpoint: the queried
// fields the config enables, plus the style subset the widget script needs.
type statusResponse struct {
	Data   map[string]any `json:"data,omitempty"`
	Config map[string]any `json:"config,omitempty"`
	Error  string         `json:"error,omitempty"`
	OK     bool           `json:"success"`
}

// handleServerStatus performs a live query for a stored configuration and
// filters the snapshot down to the fields the widget has enabled.
func (s *Server) handleServerStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.loadConfig(w, r)
	if cfg == nil {
		return
	}

	res := s.fetcher.Fetch(cfg.ServerHost, cfg.ServerPort)
	if !res.OK {
		writeJSON(w, http.StatusOK, statusResponse{Error: res.Error})
		return
	}
	s.enrichCountry(&res)

	writeJSON(w, http.StatusOK, statusResponse{
		OK:   true,
		Data: filterFields(res.Data, cfg.EnabledFields),
		Config: map[string]any{
			"theme":            cfg.Theme,
			"accent_color":     cfg.AccentColor,
			"font_family":      cfg.FontFamily,
			"dark_mode":        cfg.DarkMode,
			"refresh_interval": cfg.RefreshInterval,
		},
	})
}

// handleWidget serves the embeddable widget HTML for a stored configuration.
func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	cfg := s.loadConfig(w, r)
	if cfg == nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.widgetTmpl.Execute(w, cfg); err != nil {
		log.Error().Err(err).Str("config_id", cfg.ID).Msg("Failed to render widget")
	}
}

// handleListConfigs returns all stored configurations.
// This endpoint is protected by AdminAuthMiddleware.
func (s *Server) handleListConfigs(w http.ResponseWriter, _ *http.Request) {
	configs, err := s.storage.GetConfigs()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch configs")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	if configs == nil {
		configs = []models.WidgetConfig{}
	}

	writeJSON(w, http.StatusOK, configs)
}

// handleDeleteConfig removes a stored configuration.
// This endpoint is protected by AdminAuthMiddleware.
func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.storage.DeleteConfig(id); err != nil {
		log.Error().Err(err).Str("config_id", id).Msg("Failed to delete config")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return
	}

	log.Info().Str("config_id", id).Msg("Widget config deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Config deleted"})
}

// loadConfig fetches the configuration named by the {id} path segment,
// writing the error response itself when the config cannot be served.
func (s *Server) loadConfig(w http.ResponseWriter, r *http.Request) *models.WidgetConfig {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Missing config id", http.StatusBadRequest)
		return nil
	}

	cfg, err := s.storage.GetConfig(id)
	if err != nil {
		log.Error().Err(err).Str("config_id", id).Msg("Failed to fetch config")
		http.Error(w, "Database Error", http.StatusInternalServerError)
		return nil
	}
	if cfg == nil {
		http.Error(w, "Configuration not found", http.StatusNotFound)
		return nil
	}

	cfg.ApplyDefaults()

	return cfg
}

// filterFields keeps only the snapshot fields the widget has enabled.
func filterFields(info *query.ServerInfo, enabled map[string]bool) map[string]any {
	full := map[string]any{
		"hostname":           info.Hostname,
		"map":                info.Map,
		"current_players":    info.CurrentPlayers,
		"max_players":        info.MaxPlayers,
		"game":               info.Game,
		"server_type":        info.ServerType,
		"os":                 info.OS,
		"password_protected": info.PasswordProtected,
		"vac_enabled":        info.VACEnabled,
		"ping":               info.Ping,
		"player_list":        info.Players,
		"country_code":       info.CountryCode,
	}

	out := make(map[string]any, len(enabled))
	for field, on := range enabled {
		if !on {
			continue
		}
		if value, ok := full[field]; ok {
			out[field] = value
		}
	}

	return out
}
