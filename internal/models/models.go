// Package models defines the data structures used for API requests and
// widget configuration persistence.
package models

import "time"

// QueryRequest is the body of a single live server query.
type QueryRequest struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// BatchQueryRequest is the body of a batched live server query.
type BatchQueryRequest struct {
	Servers []QueryRequest `json:"servers"`
}

// DefaultEnabledFields is the field selection a new widget starts with.
func DefaultEnabledFields() map[string]bool {
	return map[string]bool{
		"hostname":           true,
		"map":                true,
		"current_players":    true,
		"max_players":        true,
		"player_list":        false,
		"game":               true,
		"ping":               true,
		"password_protected": true,
		"vac_enabled":        true,
	}
}

// WidgetConfig describes one embeddable status widget: which server it
// watches, which fields it shows, and how it is styled.
type WidgetConfig struct {
	CreatedAt time.Time `json:"created_at"`

	// EnabledFields selects which ServerInfo fields the widget renders.
	EnabledFields map[string]bool `json:"enabled_fields"`

	// ID is the public identifier used in widget and status URLs.
	ID string `json:"config_id"`

	// ServerHost and ServerPort identify the game server to query.
	ServerHost string `json:"server_host"`

	Theme           string `json:"theme"`
	AccentColor     string `json:"accent_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	FontFamily      string `json:"font_family"`
	BorderStyle     string `json:"border_style"`
	AnimationSpeed  string `json:"animation_speed"`
	Layout          string `json:"layout"`

	ServerPort int `json:"server_port"`

	// RefreshInterval is the widget auto-refresh period in seconds.
	RefreshInterval int `json:"refresh_interval"`

	BorderRadius    int `json:"border_radius"`
	ShadowIntensity int `json:"shadow_intensity"`

	DarkMode bool `json:"dark_mode"`
}

// ApplyDefaults fills unset style fields so stored configs always render.
func (c *WidgetConfig) ApplyDefaults() {
	if c.EnabledFields == nil {
		c.EnabledFields = DefaultEnabledFields()
	}
	if c.Theme == "" {
		c.Theme = "neon"
	}
	if c.AccentColor == "" {
		c.AccentColor = "#00ff88"
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = "#0f0f14"
	}
	if c.TextColor == "" {
		c.TextColor = "#e0e0e0"
	}
	if c.FontFamily == "" {
		c.FontFamily = "'Space Grotesk', sans-serif"
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 30
	}
	if c.BorderRadius <= 0 {
		c.BorderRadius = 16
	}
	if c.BorderStyle == "" {
		c.BorderStyle = "solid"
	}
	if c.ShadowIntensity <= 0 {
		c.ShadowIntensity = 50
	}
	if c.AnimationSpeed == "" {
		c.AnimationSpeed = "normal"
	}
	if c.Layout == "" {
		c.Layout = "default"
	}
}
