package a2s

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFragment(t *testing.T) {
	data := []byte{0x78, 0x56, 0x34, 0x12, 0x13, 0xAA, 0xBB}

	frag, err := parseFragment(data)
	require.NoError(t, err)
	require.Equal(t, uint32(0x12345678), frag.id)
	require.Equal(t, uint8(1), frag.number)
	require.Equal(t, uint8(3), frag.total)
	require.Equal(t, []byte{0xAA, 0xBB}, frag.payload)
}

func TestParseFragmentRejectsBadIndex(t *testing.T) {
	// Fragment number 2 of total 2 is out of range.
	_, err := parseFragment([]byte{0, 0, 0, 0, 0x22, 0xAA})
	require.ErrorIs(t, err, ErrBadFragment)

	// Zero total is nonsense.
	_, err = parseFragment([]byte{0, 0, 0, 0, 0x00, 0xAA})
	require.ErrorIs(t, err, ErrBadFragment)
}

func TestFragmentSetAssemblesInIndexOrder(t *testing.T) {
	frags := []fragment{
		{id: 7, number: 2, total: 3, payload: []byte("gamma")},
		{id: 7, number: 0, total: 3, payload: []byte("alpha")},
		{id: 7, number: 1, total: 3, payload: []byte("beta")},
	}

	set := newFragmentSet(frags[0])
	for _, f := range frags {
		require.NoError(t, set.add(f))
	}

	require.True(t, set.complete())
	require.Equal(t, []byte("alphabetagamma"), set.assemble())
}

func TestFragmentSetRejectsForeignID(t *testing.T) {
	set := newFragmentSet(fragment{id: 1, number: 0, total: 2, payload: []byte("a")})

	err := set.add(fragment{id: 2, number: 1, total: 2, payload: []byte("b")})
	require.ErrorIs(t, err, ErrBadFragment)
}

func TestFragmentSetIgnoresDuplicates(t *testing.T) {
	first := fragment{id: 9, number: 0, total: 2, payload: []byte("x")}
	set := newFragmentSet(first)

	require.NoError(t, set.add(first))
	require.NoError(t, set.add(first))
	require.False(t, set.complete())
}

func TestPacketReaderTruncation(t *testing.T) {
	r := &packetReader{data: []byte{'a', 'b'}}

	_, err := r.readString()
	require.ErrorIs(t, err, ErrTruncated)

	_, err = r.readInt32()
	require.ErrorIs(t, err, ErrTruncated)
}
