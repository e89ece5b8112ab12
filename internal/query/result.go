// Package query turns raw A2S exchanges into tagged status results: it
// resolves addresses, fetches one server's snapshot with latency measured,
// classifies every failure, and fans batches of servers out concurrently.
package query

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/dhiksjf/serverstat-hub/internal/a2s"
)

// ErrorKind tags the cause of a failed query.
type ErrorKind string

// The full failure taxonomy. Every error leaving Fetch carries exactly one
// of these tags.
const (
	KindInvalidAddress    ErrorKind = "invalid_address"
	KindTimeout           ErrorKind = "timeout"
	KindConnectionRefused ErrorKind = "connection_refused"
	KindConnectionReset   ErrorKind = "connection_reset"
	KindNetworkError      ErrorKind = "network_error"
	KindProtocolError     ErrorKind = "protocol_error"
	KindUnexpected        ErrorKind = "unexpected"
)

// Player is one roster entry of a successful query.
type Player struct {
	Name string `json:"name"`

	// Score is the player's score, usually frags.
	Score int32 `json:"score"`

	// Duration is seconds the player has been connected.
	Duration float64 `json:"duration"`
}

// ServerInfo is the assembled snapshot of one server. It is complete on
// success except for Players, which is best-effort and may be empty, and
// CountryCode, which is filled by callers holding a GeoIP provider.
type ServerInfo struct {
	Hostname          string   `json:"hostname"`
	Map               string   `json:"map"`
	Game              string   `json:"game"`
	ServerType        string   `json:"server_type"`
	OS                string   `json:"os"`
	ResolvedIP        string   `json:"resolved_ip,omitempty"`
	CountryCode       string   `json:"country_code,omitempty"`
	Players           []Player `json:"player_list"`
	Ping              float64  `json:"ping"`
	CurrentPlayers    int      `json:"current_players"`
	MaxPlayers        int      `json:"max_players"`
	PasswordProtected bool     `json:"password_protected"`
	VACEnabled        bool     `json:"vac_enabled"`
}

// Result is the tagged outcome of one fetch: either Data is set and OK is
// true, or ErrorKind and Error describe the failure.
type Result struct {
	Data      *ServerInfo `json:"data,omitempty"`
	ErrorKind ErrorKind   `json:"error_kind,omitempty"`
	Error     string      `json:"error,omitempty"`
	OK        bool        `json:"success"`
}

func failure(kind ErrorKind, message string) Result {
	return Result{ErrorKind: kind, Error: message}
}

// failureFrom classifies err and pairs it with a human-readable message.
func failureFrom(err error) Result {
	switch kind := classify(err); kind {
	case KindTimeout:
		return failure(kind, "Connection timeout - server may be offline")
	case KindConnectionRefused:
		return failure(kind, "Connection refused - invalid IP or port")
	case KindConnectionReset:
		return failure(kind, "Connection reset - server may be offline")
	case KindNetworkError:
		return failure(kind, fmt.Sprintf("Network error: %s", err))
	case KindProtocolError:
		return failure(kind, fmt.Sprintf("Malformed server response: %s", err))
	default:
		return failure(kind, fmt.Sprintf("Failed to query server: %s", err))
	}
}

// classify maps a transport or protocol error to its ErrorKind.
func classify(err error) ErrorKind {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return KindTimeout
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindConnectionRefused
	case errors.Is(err, syscall.ECONNRESET):
		return KindConnectionReset
	case errors.Is(err, a2s.ErrBadHeader),
		errors.Is(err, a2s.ErrTruncated),
		errors.Is(err, a2s.ErrBadFragment):
		return KindProtocolError
	}

	var operr *net.OpError
	if errors.As(err, &operr) {
		return KindNetworkError
	}

	return KindUnexpected
}
