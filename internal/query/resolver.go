package query

import (
	"fmt"
	"net"
	"strings"
)

// Port bounds for a queryable endpoint.
const (
	MinPort = 1
	MaxPort = 65535
)

// Address is a validated, resolved endpoint. IP is populated only after
// successful resolution; Host keeps the caller's original spelling so batch
// results can be keyed by it.
type Address struct {
	Host string
	IP   string
	Port int
}

// Resolve validates host and port and resolves the host to an IP address,
// preferring IPv4 the way gethostbyname did. Validation failures return
// before any resolver call, so no I/O happens for a bad port or host.
func Resolve(host string, port int) (Address, error) {
	if port < MinPort || port > MaxPort {
		return Address{}, fmt.Errorf("port must be between %d and %d, got %d", MinPort, MaxPort, port)
	}

	if host == "" {
		return Address{}, fmt.Errorf("host must be a non-empty string")
	}
	if strings.ContainsAny(host, " \t") {
		return Address{}, fmt.Errorf("host %q is not a valid hostname", host)
	}

	// Literal IPs skip the resolver entirely.
	if ip := net.ParseIP(host); ip != nil {
		return Address{Host: host, IP: ip.String(), Port: port}, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return Address{}, fmt.Errorf("cannot resolve hostname %q: %w", host, err)
	}

	for _, ip := range ips {
		if ip.To4() != nil {
			return Address{Host: host, IP: ip.String(), Port: port}, nil
		}
	}

	return Address{Host: host, IP: ips[0].String(), Port: port}, nil
}
