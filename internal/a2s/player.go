package a2s

import "fmt"

// Player is one entry of an A2S_PLAYER response. Servers pad the roster with
// empty-name entries for connecting clients; callers decide whether to keep
// those.
type Player struct {
	// Name is the player's display name.
	Name string

	// Score is the player's score, usually frags.
	Score int32

	// Duration is the time in seconds the player has been connected.
	Duration float32

	// Index is the slot index as reported by the server. GoldSrc servers
	// send zero for every entry.
	Index byte
}

// parsePlayers decodes an A2S_PLAYER response body, the bytes after the 'D'
// type byte.
func parsePlayers(data []byte) ([]Player, error) {
	r := &packetReader{data: data}

	count, err := r.readByte()
	if err != nil {
		return nil, fmt.Errorf("player count: %w", err)
	}

	players := make([]Player, 0, count)
	for i := 0; i < int(count); i++ {
		var p Player

		if p.Index, err = r.readByte(); err != nil {
			return nil, fmt.Errorf("player %d index: %w", i, err)
		}
		if p.Name, err = r.readString(); err != nil {
			return nil, fmt.Errorf("player %d name: %w", i, err)
		}
		if p.Score, err = r.readInt32(); err != nil {
			return nil, fmt.Errorf("player %d score: %w", i, err)
		}
		if p.Duration, err = r.readFloat32(); err != nil {
			return nil, fmt.Errorf("player %d duration: %w", i, err)
		}

		players = append(players, p)
	}

	return players, nil
}
