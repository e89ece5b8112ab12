package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRejectsBadPorts(t *testing.T) {
	for _, port := range []int{0, -1, 65536, 70000} {
		_, err := Resolve("192.0.2.1", port)
		require.Error(t, err, "port %d", port)
	}
}

func TestResolveRejectsBadHosts(t *testing.T) {
	for _, host := range []string{"", "not a host", "tab\thost"} {
		_, err := Resolve(host, 27015)
		require.Error(t, err, "host %q", host)
	}
}

func TestResolveLiteralIP(t *testing.T) {
	addr, err := Resolve("203.0.113.5", 27015)
	require.NoError(t, err)
	require.Equal(t, "203.0.113.5", addr.IP)
	require.Equal(t, "203.0.113.5", addr.Host)
	require.Equal(t, 27015, addr.Port)
}

func TestResolveLocalhost(t *testing.T) {
	addr, err := Resolve("localhost", 27015)
	require.NoError(t, err)
	require.NotEmpty(t, addr.IP)
	require.Equal(t, "localhost", addr.Host)
}

func TestResolveUnknownHost(t *testing.T) {
	_, err := Resolve("definitely-not-a-real-host-12345.invalid", 27015)
	require.Error(t, err)
}
