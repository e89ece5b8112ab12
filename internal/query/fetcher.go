package query

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dhiksjf/serverstat-hub/internal/a2s"
)

const (
	// DefaultTimeout is used when the caller passes no timeout.
	DefaultTimeout = 3 * time.Second

	// MinTimeout is the enforced floor; near-zero timeouts only produce
	// spurious failures.
	MinTimeout = 500 * time.Millisecond
)

// Fetcher performs single and batched server status queries. A zero-value
// Fetcher is not usable; construct one with NewFetcher.
type Fetcher struct {
	// Timeout bounds each protocol exchange of a fetch.
	Timeout time.Duration

	// BufferSize is the per-datagram receive buffer handed to the A2S client.
	BufferSize uint16
}

// NewFetcher returns a Fetcher with the given timeout, clamped to MinTimeout
// and defaulting to DefaultTimeout when zero or negative.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}

	return &Fetcher{
		Timeout:    timeout,
		BufferSize: a2s.DefaultBufferSize,
	}
}

// Fetch queries one server and returns a tagged result. The exchange is:
// resolve, A2S_INFO with latency measured around it, then a best-effort
// A2S_PLAYER whose failure never fails the fetch. One UDP socket serves the
// whole call and is closed before returning.
func (f *Fetcher) Fetch(host string, port int) Result {
	addr, err := Resolve(host, port)
	if err != nil {
		log.Debug().Err(err).Str("host", host).Int("port", port).Msg("Address rejected")
		return failure(KindInvalidAddress, err.Error())
	}

	client, err := a2s.New(addr.IP, addr.Port)
	if err != nil {
		return failureFrom(err)
	}
	defer func() { _ = client.Close() }()

	client.Timeout = f.Timeout
	if f.BufferSize > 0 {
		client.BufferSize = f.BufferSize
	}

	// Ping window covers the INFO exchange only.
	start := time.Now()
	info, err := client.GetInfo()
	if err != nil {
		log.Debug().Err(err).Str("ip", addr.IP).Int("port", addr.Port).Msg("A2S_INFO query failed")
		return failureFrom(err)
	}
	ping := roundMillis(time.Since(start))

	return Result{
		OK: true,
		Data: &ServerInfo{
			Hostname:          info.Name,
			Map:               info.Map,
			CurrentPlayers:    int(info.Players),
			MaxPlayers:        int(info.MaxPlayers),
			Game:              info.Game,
			ServerType:        info.ServerType.String(),
			OS:                info.Environment.String(),
			PasswordProtected: info.Visibility,
			VACEnabled:        info.VAC,
			ResolvedIP:        addr.IP,
			Ping:              ping,
			Players:           f.fetchPlayers(client, addr),
		},
	}
}

// fetchPlayers retrieves the roster on the fetch's socket. Any failure is
// downgraded to an empty list; player data is strictly best-effort. Entries
// with an empty name are slot padding and are dropped.
func (f *Fetcher) fetchPlayers(client *a2s.Client, addr Address) []Player {
	raw, err := client.GetPlayers()
	if err != nil {
		log.Debug().Err(err).Str("ip", addr.IP).Int("port", addr.Port).Msg("A2S_PLAYER query failed")
		return []Player{}
	}

	players := make([]Player, 0, len(raw))
	for _, p := range raw {
		if p.Name == "" {
			continue
		}
		players = append(players, Player{
			Name:     p.Name,
			Score:    p.Score,
			Duration: float64(p.Duration),
		})
	}

	return players
}

// roundMillis converts a duration to milliseconds rounded to 2 decimals.
func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
