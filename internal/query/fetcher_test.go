package query

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// gameServer emulates a CS 1.6 server on loopback. Each incoming datagram is
// answered with the datagrams the handler returns.
func gameServer(t *testing.T, handler func(req []byte) [][]byte) int {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	go func() {
		buf := make([]byte, 2048)
		for {
			n, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			for _, resp := range handler(append([]byte(nil), buf[:n]...)) {
				_, _ = pc.WriteTo(resp, addr)
			}
		}
	}()

	return pc.LocalAddr().(*net.UDPAddr).Port
}

func infoResponse(name, mapName string, players, maxPlayers byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'I', 48})
	for _, s := range []string{name, mapName, "cstrike", "Counter-Strike"} {
		buf.WriteString(s)
		buf.WriteByte(0x00)
	}
	_ = binary.Write(buf, binary.LittleEndian, uint16(10))
	buf.WriteByte(players)
	buf.WriteByte(maxPlayers)
	buf.WriteByte(0)   // bots
	buf.WriteByte('d') // dedicated
	buf.WriteByte('l') // linux
	buf.WriteByte(0)   // public
	buf.WriteByte(1)   // vac

	return buf.Bytes()
}

func playerResponse(names []string) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'D'})
	buf.WriteByte(byte(len(names)))
	for i, name := range names {
		buf.WriteByte(byte(i))
		buf.WriteString(name)
		buf.WriteByte(0x00)
		_ = binary.Write(buf, binary.LittleEndian, int32(i*3))
		_ = binary.Write(buf, binary.LittleEndian, float32(60*i))
	}

	return buf.Bytes()
}

func TestFetchSuccess(t *testing.T) {
	port := gameServer(t, func(req []byte) [][]byte {
		switch req[4] {
		case 'T':
			return [][]byte{infoResponse("my server", "de_dust2", 3, 32)}
		case 'U':
			return [][]byte{playerResponse([]string{"alpha", "", "bravo"})}
		}
		return nil
	})

	res := NewFetcher(time.Second).Fetch("127.0.0.1", port)
	require.True(t, res.OK, "fetch failed: %s", res.Error)
	require.Equal(t, "my server", res.Data.Hostname)
	require.Equal(t, "de_dust2", res.Data.Map)
	require.Equal(t, 3, res.Data.CurrentPlayers)
	require.Equal(t, 32, res.Data.MaxPlayers)
	require.Equal(t, "Dedicated", res.Data.ServerType)
	require.Equal(t, "Linux", res.Data.OS)
	require.False(t, res.Data.PasswordProtected)
	require.True(t, res.Data.VACEnabled)
	require.Greater(t, res.Data.Ping, 0.0)

	// Empty-name padding entries are dropped.
	require.Len(t, res.Data.Players, 2)
	require.Equal(t, "alpha", res.Data.Players[0].Name)
	require.Equal(t, "bravo", res.Data.Players[1].Name)
}

func TestFetchPlayerFailureIsBestEffort(t *testing.T) {
	port := gameServer(t, func(req []byte) [][]byte {
		switch req[4] {
		case 'T':
			return [][]byte{infoResponse("no roster", "cs_office", 1, 16)}
		case 'U':
			// Garbled challenge response.
			return [][]byte{{0xFF, 0xFF, 0xFF, 0xFF, 'A', 0x01}}
		}
		return nil
	})

	res := NewFetcher(time.Second).Fetch("127.0.0.1", port)
	require.True(t, res.OK, "fetch failed: %s", res.Error)
	require.Equal(t, "no roster", res.Data.Hostname)
	require.Empty(t, res.Data.Players)
}

func TestFetchInvalidAddressIsImmediate(t *testing.T) {
	f := NewFetcher(time.Second)

	start := time.Now()
	res := f.Fetch("not a host", 27015)
	elapsed := time.Since(start)

	require.False(t, res.OK)
	require.Equal(t, KindInvalidAddress, res.ErrorKind)
	require.Less(t, elapsed, 50*time.Millisecond)

	res = f.Fetch("192.0.2.1", 0)
	require.False(t, res.OK)
	require.Equal(t, KindInvalidAddress, res.ErrorKind)
}

func TestFetchTimeout(t *testing.T) {
	port := gameServer(t, func(req []byte) [][]byte {
		return nil // dead server
	})

	f := NewFetcher(MinTimeout)

	start := time.Now()
	res := f.Fetch("127.0.0.1", port)
	elapsed := time.Since(start)

	require.False(t, res.OK)
	require.Equal(t, KindTimeout, res.ErrorKind)
	require.Less(t, elapsed, MinTimeout+200*time.Millisecond)
}

func TestFetchProtocolError(t *testing.T) {
	port := gameServer(t, func(req []byte) [][]byte {
		return [][]byte{{0xDE, 0xAD, 0xBE, 0xEF, 0x00}}
	})

	res := NewFetcher(time.Second).Fetch("127.0.0.1", port)
	require.False(t, res.OK)
	require.Equal(t, KindProtocolError, res.ErrorKind)
}

func TestNewFetcherClampsTimeout(t *testing.T) {
	require.Equal(t, DefaultTimeout, NewFetcher(0).Timeout)
	require.Equal(t, DefaultTimeout, NewFetcher(-time.Second).Timeout)
	require.Equal(t, MinTimeout, NewFetcher(time.Millisecond).Timeout)
	require.Equal(t, 2*time.Second, NewFetcher(2*time.Second).Timeout)
}
