package a2s

import "fmt"

// ServerType is the dedicated/listen/proxy byte from an A2S_INFO response.
type ServerType byte

// String reports the server type in the form the Steam server browser shows.
func (t ServerType) String() string {
	switch t {
	case 'd', 'D':
		return "Dedicated"
	case 'l', 'L':
		return "Listen"
	case 'p', 'P':
		return "Proxy"
	default:
		return "Unknown"
	}
}

// Environment is the host platform byte from an A2S_INFO response.
type Environment byte

// String reports the platform name. GoldSrc servers use 'o' for Mac where
// newer Source builds use 'm'.
func (e Environment) String() string {
	switch e {
	case 'l', 'L':
		return "Linux"
	case 'w', 'W':
		return "Windows"
	case 'm', 'o':
		return "Mac"
	default:
		return "Unknown"
	}
}

// Info is one point-in-time A2S_INFO snapshot of a server.
type Info struct {
	// Name is the public server name.
	Name string

	// Map is the currently loaded map.
	Map string

	// Folder is the game directory, e.g. "cstrike".
	Folder string

	// Game is the full game description.
	Game string

	// Version is the game version string, present on most servers as an
	// optional trailing field.
	Version string

	// AppID is the Steam application ID.
	AppID uint16

	// Protocol is the query protocol version.
	Protocol byte

	// Players and MaxPlayers are the current and maximum player counts.
	Players    byte
	MaxPlayers byte

	// Bots is the number of bots occupying player slots.
	Bots byte

	// ServerType and Environment describe the hosting setup.
	ServerType  ServerType
	Environment Environment

	// Visibility is true when the server requires a join password.
	Visibility bool

	// VAC is true when Valve Anti-Cheat is enabled.
	VAC bool
}

// parseInfo decodes an A2S_INFO response body, the bytes after the 'I' type
// byte. Field order is fixed by the protocol; everything after the VAC flag
// is optional and ignored beyond the version string.
func parseInfo(data []byte) (*Info, error) {
	r := &packetReader{data: data}
	info := &Info{}
	var err error

	if info.Protocol, err = r.readByte(); err != nil {
		return nil, fmt.Errorf("info protocol: %w", err)
	}
	if info.Name, err = r.readString(); err != nil {
		return nil, fmt.Errorf("info name: %w", err)
	}
	if info.Map, err = r.readString(); err != nil {
		return nil, fmt.Errorf("info map: %w", err)
	}
	if info.Folder, err = r.readString(); err != nil {
		return nil, fmt.Errorf("info folder: %w", err)
	}
	if info.Game, err = r.readString(); err != nil {
		return nil, fmt.Errorf("info game: %w", err)
	}
	if info.AppID, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("info app id: %w", err)
	}
	if info.Players, err = r.readByte(); err != nil {
		return nil, fmt.Errorf("info players: %w", err)
	}
	if info.MaxPlayers, err = r.readByte(); err != nil {
		return nil, fmt.Errorf("info max players: %w", err)
	}
	if info.Bots, err = r.readByte(); err != nil {
		return nil, fmt.Errorf("info bots: %w", err)
	}

	serverType, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("info server type: %w", err)
	}
	info.ServerType = ServerType(serverType)

	environment, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("info environment: %w", err)
	}
	info.Environment = Environment(environment)

	visibility, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("info visibility: %w", err)
	}
	info.Visibility = visibility != 0

	vac, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("info vac: %w", err)
	}
	info.VAC = vac != 0

	// Optional trailing fields: version string, then EDF extras we skip.
	if r.remaining() > 0 {
		if v, err := r.readString(); err == nil {
			info.Version = v
		}
	}

	return info, nil
}
