// Package fake provides utilities for generating random widget
// configurations for testing and development purposes.
package fake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dhiksjf/serverstat-hub/internal/models"
	"github.com/dhiksjf/serverstat-hub/internal/storage"
)

// GenerateData populates the storage with a specified number of randomized
// widget configurations pointing at plausible CS 1.6 server addresses.
func GenerateData(store *storage.Repository, count int) {
	themes := []string{"neon", "classic", "minimal", "terminal", "retro", "glassmorphism", "military", "cyberpunk"}
	accents := []string{"#00ff88", "#ff8800", "#00aaff", "#ff2266", "#ffee00"}
	layouts := []string{"default", "compact", "wide"}

	for i := 0; i < count; i++ {
		daysAgo := rand.Intn(30)
		created := time.Now().UTC().
			Add(-time.Duration(daysAgo) * 24 * time.Hour).
			Add(-time.Duration(rand.Intn(1440)) * time.Minute)

		cfg := models.WidgetConfig{
			ID:              uuid.NewString(),
			ServerHost:      fmt.Sprintf("%d.%d.%d.%d", rand.Intn(220)+1, rand.Intn(255), rand.Intn(255), rand.Intn(255)),
			ServerPort:      27015 + rand.Intn(10),
			Theme:           themes[rand.Intn(len(themes))],
			AccentColor:     accents[rand.Intn(len(accents))],
			Layout:          layouts[rand.Intn(len(layouts))],
			RefreshInterval: 15 * (1 + rand.Intn(4)),
			DarkMode:        rand.Float32() < 0.8,
			CreatedAt:       created,
		}
		cfg.ApplyDefaults()

		// Roughly a third of widgets show the roster
		if rand.Float32() < 0.3 {
			cfg.EnabledFields["player_list"] = true
		}

		if err := store.SaveConfig(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to generate fake config")
		}
	}
}
