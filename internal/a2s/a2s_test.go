package a2s

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeServer answers each incoming datagram with the datagrams produced by
// handler, emulating a GoldSrc server on the loopback interface.
func fakeServer(t *testing.T, handler func(req []byte) [][]byte) int {
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

func dial(t *testing.T, port int) *Client {
	t.Helper()

	client, err := New("127.0.0.1", port)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	client.Timeout = time.Second

	return client
}

// buildInfoDatagram produces a complete A2S_INFO response for the given
// snapshot, simple header included.
func buildInfoDatagram(info Info) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'I'})
	buf.WriteByte(info.Protocol)
	for _, s := range []string{info.Name, info.Map, info.Folder, info.Game} {
		buf.WriteString(s)
		buf.WriteByte(0x00)
	}
	_ = binary.Write(buf, binary.LittleEndian, info.AppID)
	buf.WriteByte(info.Players)
	buf.WriteByte(info.MaxPlayers)
	buf.WriteByte(info.Bots)
	buf.WriteByte(byte(info.ServerType))
	buf.WriteByte(byte(info.Environment))
	if info.Visibility {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	if info.VAC {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	if info.Version != "" {
		buf.WriteString(info.Version)
		buf.WriteByte(0x00)
	}

	return buf.Bytes()
}

func buildPlayerDatagram(players []Player) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'D'})
	buf.WriteByte(byte(len(players)))
	for _, p := range players {
		buf.WriteByte(p.Index)
		buf.WriteString(p.Name)
		buf.WriteByte(0x00)
		_ = binary.Write(buf, binary.LittleEndian, p.Score)
		_ = binary.Write(buf, binary.LittleEndian, p.Duration)
	}

	return buf.Bytes()
}

func challengeDatagram(token []byte) []byte {
	return append([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'A'}, token...)
}

func TestGetInfoRoundTrip(t *testing.T) {
	want := Info{
		Protocol:    48,
		Name:        "de_dust24/7 [FastDL|1000FPS]",
		Map:         "de_dust2",
		Folder:      "cstrike",
		Game:        "Counter-Strike",
		Version:     "1.1.2.7/Stdio",
		AppID:       10,
		Players:     17,
		MaxPlayers:  32,
		Bots:        2,
		ServerType:  'd',
		Environment: 'l',
		Visibility:  false,
		VAC:         true,
	}

	port := fakeServer(t, func(req []byte) [][]byte {
		return [][]byte{buildInfoDatagram(want)}
	})

	info, err := dial(t, port).GetInfo()
	require.NoError(t, err)
	require.Equal(t, &want, info)
	require.Equal(t, "Dedicated", info.ServerType.String())
	require.Equal(t, "Linux", info.Environment.String())
}

func TestGetInfoChallenge(t *testing.T) {
	want := Info{
		Protocol:    48,
		Name:        "challenge me",
		Map:         "cs_assault",
		Folder:      "cstrike",
		Game:        "Counter-Strike",
		AppID:       10,
		MaxPlayers:  20,
		ServerType:  'd',
		Environment: 'w',
	}
	token := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	port := fakeServer(t, func(req []byte) [][]byte {
		// First request carries no challenge, demand one. The retry must
		// echo the token after the probe payload.
		if bytes.HasSuffix(req, token) {
			return [][]byte{buildInfoDatagram(want)}
		}
		return [][]byte{challengeDatagram(token)}
	})

	info, err := dial(t, port).GetInfo()
	require.NoError(t, err)
	require.Equal(t, want.Name, info.Name)
	require.Equal(t, "Windows", info.Environment.String())
}

func TestGetPlayersChallenge(t *testing.T) {
	want := []Player{
		{Name: "neo", Score: 31, Duration: 1042.5},
		{Name: "", Score: 0, Duration: 3.25},
		{Name: "trinity", Score: -2, Duration: 17},
	}
	token := []byte{0x01, 0x02, 0x03, 0x04}

	port := fakeServer(t, func(req []byte) [][]byte {
		if bytes.Equal(req[5:], token) {
			return [][]byte{buildPlayerDatagram(want)}
		}
		return [][]byte{challengeDatagram(token)}
	})

	players, err := dial(t, port).GetPlayers()
	require.NoError(t, err)
	require.Equal(t, want, players)
}

func TestRepeatedChallengeFails(t *testing.T) {
	port := fakeServer(t, func(req []byte) [][]byte {
		return [][]byte{challengeDatagram([]byte{1, 2, 3, 4})}
	})

	_, err := dial(t, port).GetPlayers()
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestGetInfoBadHeader(t *testing.T) {
	port := fakeServer(t, func(req []byte) [][]byte {
		return [][]byte{{0xFF, 0xFF, 0xFF, 0xFF, 'Z', 0x00}}
	})

	_, err := dial(t, port).GetInfo()
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestGetInfoTruncated(t *testing.T) {
	port := fakeServer(t, func(req []byte) [][]byte {
		// Cuts off inside the map name.
		return [][]byte{{0xFF, 0xFF, 0xFF, 0xFF, 'I', 48, 's', 'r', 'v', 0x00, 'd', 'e'}}
	})

	_, err := dial(t, port).GetInfo()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestSplitResponseOutOfOrder(t *testing.T) {
	want := Info{
		Protocol:    48,
		Name:        "split server",
		Map:         "de_inferno",
		Folder:      "cstrike",
		Game:        "Counter-Strike",
		AppID:       10,
		Players:     5,
		MaxPlayers:  24,
		ServerType:  'd',
		Environment: 'l',
	}

	whole := buildInfoDatagram(want)
	half := len(whole) / 2

	split := func(number, total byte, payload []byte) []byte {
		frame := []byte{0xFE, 0xFF, 0xFF, 0xFF, 0x78, 0x56, 0x34, 0x12, number<<4 | total}
		return append(frame, payload...)
	}

	port := fakeServer(t, func(req []byte) [][]byte {
		// Second fragment delivered first.
		return [][]byte{
			split(1, 2, whole[half:]),
			split(0, 2, whole[:half]),
		}
	})

	info, err := dial(t, port).GetInfo()
	require.NoError(t, err)
	require.Equal(t, &want, info)
}

func TestQueryTimeout(t *testing.T) {
	port := fakeServer(t, func(req []byte) [][]byte {
		return nil // never answer
	})

	client := dial(t, port)
	client.Timeout = 300 * time.Millisecond

	start := time.Now()
	_, err := client.GetInfo()
	elapsed := time.Since(start)

	require.Error(t, err)
	nerr, ok := err.(net.Error)
	require.True(t, ok, "expected a net.Error, got %T", err)
	require.True(t, nerr.Timeout())
	require.Less(t, elapsed, 500*time.Millisecond)
}

func TestIncompleteFragmentsTimeOut(t *testing.T) {
	port := fakeServer(t, func(req []byte) [][]byte {
		// One fragment of two, the rest never arrives.
		frame := []byte{0xFE, 0xFF, 0xFF, 0xFF, 0x01, 0x00, 0x00, 0x00, 0x02}
		return [][]byte{append(frame, 0xFF, 0xFF)}
	})

	client := dial(t, port)
	client.Timeout = 300 * time.Millisecond

	_, err := client.GetInfo()
	require.Error(t, err)
	nerr, ok := err.(net.Error)
	require.True(t, ok, "expected a net.Error, got %T", err)
	require.True(t, nerr.Timeout())
}
