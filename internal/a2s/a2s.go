// Package a2s implements a client for the Source Engine Query (A2S) protocol
// as spoken by GoldSrc servers such as Counter-Strike 1.6. It covers the
// A2S_INFO and A2S_PLAYER requests, the challenge handshake, and reassembly
// of split UDP responses.
package a2s

import (
	"fmt"
	"net"
	"time"
)

const (
	// DefaultTimeout bounds a full query exchange (challenge round trip and
	// fragment reassembly included) when the caller does not override it.
	DefaultTimeout = 3 * time.Second

	// DefaultBufferSize is the receive buffer size for a single datagram.
	// 1400 stays below the common 1500-byte MTU.
	DefaultBufferSize uint16 = 1400
)

// Request type bytes, sent after the 0xFFFFFFFF simple-packet header.
const (
	requestInfo   byte = 'T'
	requestPlayer byte = 'U'
)

// Response type bytes.
const (
	responseInfo      byte = 'I'
	responseChallenge byte = 'A'
	responsePlayer    byte = 'D'
)

// infoPayload is the fixed probe string every A2S_INFO request carries.
var infoPayload = []byte("Source Engine Query\x00")

// Client queries a single game server over one UDP socket. The protocol is
// connectionless, so a Client holds no session state beyond the socket; the
// challenge token lives only for the duration of one query exchange.
type Client struct {
	conn *net.UDPConn

	// Timeout bounds each GetInfo/GetPlayers call as a whole.
	Timeout time.Duration

	// BufferSize is the receive buffer size for one datagram.
	BufferSize uint16
}

// New opens a UDP socket to the server at ip:port. The address must already
// be resolved; hostname handling belongs to the caller.
func New(ip string, port int) (*Client, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return nil, fmt.Errorf("a2s: invalid IP address %q", ip)
	}

	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: addr, Port: port})
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:       conn,
		Timeout:    DefaultTimeout,
		BufferSize: DefaultBufferSize,
	}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// GetInfo performs an A2S_INFO exchange and parses the response.
// If the server demands a challenge first, the request is resent once with
// the challenge token appended. The whole exchange shares one deadline.
func (c *Client) GetInfo() (*Info, error) {
	body, err := c.query(requestInfo, infoPayload, false)
	if err != nil {
		return nil, err
	}

	if body[0] != responseInfo {
		return nil, fmt.Errorf("%w: 0x%02X", ErrBadHeader, body[0])
	}

	return parseInfo(body[1:])
}

// GetPlayers performs an A2S_PLAYER exchange and parses the roster.
// The first request carries 0xFFFFFFFF in place of a challenge; servers
// normally answer with a challenge token that is echoed back in the retry.
func (c *Client) GetPlayers() ([]Player, error) {
	body, err := c.query(requestPlayer, []byte{0xFF, 0xFF, 0xFF, 0xFF}, true)
	if err != nil {
		return nil, err
	}

	if body[0] != responsePlayer {
		return nil, fmt.Errorf("%w: 0x%02X", ErrBadHeader, body[0])
	}

	return parsePlayers(body[1:])
}

// query sends one request and returns the simple-packet body (type byte
// included), transparently handling the challenge round trip. For A2S_PLAYER
// the challenge replaces the request tail; for A2S_INFO it is appended.
func (c *Client) query(kind byte, tail []byte, challengeReplaces bool) ([]byte, error) {
	deadline := time.Now().Add(c.Timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	body, err := c.exchange(buildRequest(kind, tail))
	if err != nil {
		return nil, err
	}

	if body[0] == responseChallenge {
		if len(body) < 5 {
			return nil, fmt.Errorf("%w: challenge response too short", ErrTruncated)
		}
		challenge := body[1:5]

		retry := challenge
		if !challengeReplaces {
			retry = append(append([]byte{}, tail...), challenge...)
		}

		body, err = c.exchange(buildRequest(kind, retry))
		if err != nil {
			return nil, err
		}
		if body[0] == responseChallenge {
			// One retry only, further challenges are a protocol violation.
			return nil, fmt.Errorf("%w: repeated challenge", ErrBadHeader)
		}
	}

	return body, nil
}

// exchange writes one datagram and reads until a complete simple packet is
// available, collecting split fragments along the way. The socket deadline
// set by query bounds every read.
func (c *Client) exchange(req []byte) ([]byte, error) {
	if _, err := c.conn.Write(req); err != nil {
		return nil, err
	}

	buf := make([]byte, int(c.BufferSize))
	var set *fragmentSet

	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			return nil, err
		}
		if n < 5 {
			return nil, fmt.Errorf("%w: %d byte datagram", ErrTruncated, n)
		}

		switch header := int32(le.Uint32(buf[:4])); header {
		case headerSimple:
			return append([]byte(nil), buf[4:n]...), nil

		case headerSplit:
			frag, err := parseFragment(buf[4:n])
			if err != nil {
				return nil, err
			}
			if set == nil {
				set = newFragmentSet(frag)
			}
			if err := set.add(frag); err != nil {
				return nil, err
			}
			if !set.complete() {
				continue
			}

			payload := set.assemble()
			if len(payload) < 5 || int32(le.Uint32(payload[:4])) != headerSimple {
				return nil, fmt.Errorf("%w: reassembled payload", ErrBadHeader)
			}
			return payload[4:], nil

		default:
			return nil, fmt.Errorf("%w: 0x%08X", ErrBadHeader, uint32(header))
		}
	}
}

// buildRequest frames a request: simple header, type byte, tail.
func buildRequest(kind byte, tail []byte) []byte {
	req := make([]byte, 0, 5+len(tail))
	req = append(req, 0xFF, 0xFF, 0xFF, 0xFF, kind)
	return append(req, tail...)
}
