// Package config handles the parsing and validation of application
// configuration from command-line arguments and environment variables.
package config

import (
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/dhiksjf/serverstat-hub/internal/logger"
	"github.com/dhiksjf/serverstat-hub/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"SSH"`
	Storage   Storage       `group:"Storage Options" namespace:"db" env-namespace:"SSH_DB"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"SSH_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"SSH_RATE_LIMIT"`
	Query     Query         `group:"Query Options" namespace:"query" env-namespace:"SSH_QUERY"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"SSH_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Address        string   `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken      string   `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Admin authentication token"`
	AllowedOrigins []string `short:"o" long:"allowed-origin" env:"ALLOWED_ORIGINS" description:"CORS origins allowed to embed widgets, * for any" default:"*" env-delim:","`
	MaxBodySize    int64    `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming requests" default:"4096"`
	TrustProxy     bool     `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Storage holds database configuration.
type Storage struct {
	// betteralign:ignore

	Path          string `short:"d" long:"path" env:"PATH" description:"Path to SQLite database" default:"serverstat.db"`
	PruneDead     bool   `long:"prune-dead" description:"Delete widget configs whose servers no longer answer, then exit"`
	GenerateCount int    `long:"gen-fake-data" hidden:"true"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file" default:"serverstat.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
	Disable  bool          `long:"disable" env:"DISABLE" description:"Disable country detection entirely"`
}

// Query holds A2S protocol configuration.
type Query struct {
	// betteralign:ignore

	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"Query timeout, floored at 500ms" default:"3s"`
	BufferSize uint16        `long:"buffer-size" env:"BUFFER_SIZE" description:"Response datagram buffer size" default:"1400"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	Count  int           `long:"count" env:"COUNT" description:"Per-IP limit: requests count" default:"30"`
	Window time.Duration `long:"window" env:"WINDOW" description:"Per-IP limit: window duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the
// help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return &cfg
}
