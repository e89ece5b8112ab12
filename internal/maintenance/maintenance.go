// Package maintenance provides tools for cleaning up stored widget
// configurations.
package maintenance

import (
	"github.com/rs/zerolog/log"

	"github.com/dhiksjf/serverstat-hub/internal/config"
	"github.com/dhiksjf/serverstat-hub/internal/query"
	"github.com/dhiksjf/serverstat-hub/internal/storage"
)

// Run checks if any maintenance flags are set and executes the
// corresponding tasks. Returns true if a maintenance task was executed
// (indicating the program should exit).
func Run(cfg *config.Config, store *storage.Repository) bool {
	if !cfg.Storage.PruneDead {
		return false
	}

	pruneDead(cfg, store)
	return true
}

// pruneDead re-queries every configured server concurrently and deletes the
// widget configs pointing at servers that no longer answer. Servers shared
// by several configs are queried once.
func pruneDead(cfg *config.Config, store *storage.Repository) {
	configs, err := store.GetConfigs()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch configs")
		return
	}

	if len(configs) == 0 {
		log.Info().Msg("No configs found for maintenance")
		return
	}

	seen := make(map[string]struct{}, len(configs))
	var servers []query.HostPort
	for _, c := range configs {
		hp := query.HostPort{Host: c.ServerHost, Port: c.ServerPort}
		if _, ok := seen[hp.Key()]; ok {
			continue
		}
		seen[hp.Key()] = struct{}{}
		servers = append(servers, hp)
	}

	log.Info().
		Int("configs", len(configs)).
		Int("servers", len(servers)).
		Msg("Checking configured servers...")

	fetcher := query.NewFetcher(cfg.Query.Timeout)
	fetcher.BufferSize = cfg.Query.BufferSize
	results := fetcher.FetchMany(servers)

	var deleted int
	for _, c := range configs {
		key := query.HostPort{Host: c.ServerHost, Port: c.ServerPort}.Key()
		res, ok := results[key]
		if !ok || res.OK {
			continue
		}

		log.Debug().
			Str("config_id", c.ID).
			Str("server", key).
			Str("reason", res.Error).
			Msg("Server unreachable, deleting config")

		if err := store.DeleteConfig(c.ID); err != nil {
			log.Error().Err(err).Str("config_id", c.ID).Msg("Failed to delete config")
			continue
		}
		deleted++
	}

	log.Info().Int("deleted", deleted).Msg("Prune finished")
}
