package a2s

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Simple and split packet headers, little-endian int32 on the wire.
const (
	headerSimple int32 = -1 // 0xFFFFFFFF
	headerSplit  int32 = -2 // 0xFFFFFFFE
)

var le = binary.LittleEndian

// fragment is one piece of a split response in the GoldSrc framing used by
// CS 1.6: a 4-byte request ID, then one byte holding the fragment number in
// the high nibble and the fragment total in the low nibble.
type fragment struct {
	payload []byte
	id      uint32
	number  uint8
	total   uint8
}

// parseFragment decodes a split frame. The caller has already consumed the
// 0xFFFFFFFE header.
func parseFragment(data []byte) (fragment, error) {
	if len(data) < 5 {
		return fragment{}, fmt.Errorf("%w: split frame of %d bytes", ErrTruncated, len(data))
	}

	frag := fragment{
		id:      le.Uint32(data[:4]),
		number:  data[4] >> 4,
		total:   data[4] & 0x0F,
		payload: data[5:],
	}

	if frag.total == 0 || frag.number >= frag.total {
		return fragment{}, fmt.Errorf("%w: fragment %d of %d", ErrBadFragment, frag.number, frag.total)
	}

	return frag, nil
}

// fragmentSet buffers the fragments of one split response until all have
// arrived. Fragments may arrive in any order; assembly is by index.
type fragmentSet struct {
	parts [][]byte
	id    uint32
	have  int
}

func newFragmentSet(first fragment) *fragmentSet {
	return &fragmentSet{
		id:    first.id,
		parts: make([][]byte, first.total),
	}
}

func (s *fragmentSet) add(f fragment) error {
	if f.id != s.id {
		return fmt.Errorf("%w: request ID 0x%08X, want 0x%08X", ErrBadFragment, f.id, s.id)
	}
	if int(f.total) != len(s.parts) {
		return fmt.Errorf("%w: fragment total %d, want %d", ErrBadFragment, f.total, len(s.parts))
	}
	if s.parts[f.number] != nil {
		// Duplicate datagram, drop it.
		return nil
	}

	s.parts[f.number] = f.payload
	s.have++

	return nil
}

func (s *fragmentSet) complete() bool {
	return s.have == len(s.parts)
}

// assemble concatenates the buffered fragments in index order. The result
// starts with the simple-packet header again.
func (s *fragmentSet) assemble() []byte {
	return bytes.Join(s.parts, nil)
}

// packetReader walks a response body, returning ErrTruncated once the
// payload runs out under a field.
type packetReader struct {
	data []byte
	pos  int
}

func (r *packetReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *packetReader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	b := r.data[r.pos]
	r.pos++

	return b, nil
}

func (r *packetReader) readUint16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := le.Uint16(r.data[r.pos:])
	r.pos += 2

	return v, nil
}

func (r *packetReader) readInt32() (int32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := int32(le.Uint32(r.data[r.pos:]))
	r.pos += 4

	return v, nil
}

func (r *packetReader) readFloat32() (float32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := math.Float32frombits(le.Uint32(r.data[r.pos:]))
	r.pos += 4

	return v, nil
}

// readString reads a null-terminated string.
func (r *packetReader) readString() (string, error) {
	i := bytes.IndexByte(r.data[r.pos:], 0x00)
	if i < 0 {
		return "", ErrTruncated
	}
	s := string(r.data[r.pos : r.pos+i])
	r.pos += i + 1

	return s, nil
}
