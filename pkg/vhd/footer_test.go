package vhd

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFooterLength(t *testing.T) {

	for _, size := range []int64{0, mib, 2 * mib, 1024 * mib, 512 * 65535 * 16 * 63} {
		b, err := NewFooter(size).MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, b, FooterSize)
	}
}

func TestFooterLayout(t *testing.T) {

	size := int64(2 * mib)
	b, err := NewFooter(size).MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, FooterSize)

	assert.Equal(t, []byte("conectix"), b[0:8])
	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(b[8:12]), "features")
	assert.Equal(t, uint32(0x00010000), binary.BigEndian.Uint32(b[12:16]), "file format version")
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), binary.BigEndian.Uint64(b[16:24]), "data offset")
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(b[24:28]), "timestamp")
	assert.Equal(t, []byte("win "), b[28:32], "creator application")
	assert.Equal(t, uint32(0x00060003), binary.BigEndian.Uint32(b[32:36]), "creator version")
	assert.Equal(t, []byte("Wi2k"), b[36:40], "creator host os")
	assert.Equal(t, uint64(size), binary.BigEndian.Uint64(b[40:48]), "original size")
	assert.Equal(t, uint64(size), binary.BigEndian.Uint64(b[48:56]), "current size")

	chs := CHS(size)
	assert.Equal(t, chs.Cylinders, binary.BigEndian.Uint16(b[56:58]))
	assert.Equal(t, chs.Heads, b[58])
	assert.Equal(t, chs.SectorsPerTrack, b[59])

	assert.Equal(t, uint32(2), binary.BigEndian.Uint32(b[60:64]), "disk type")
	assert.Equal(t, byte(0), b[84], "saved state")
	assert.Equal(t, make([]byte, 427), b[85:], "reserved")
}

func TestFooterChecksum(t *testing.T) {

	for _, size := range []int64{mib, 30 * mib, 4096 * mib} {
		b, err := NewFooter(size).MarshalBinary()
		require.NoError(t, err)

		stored := binary.BigEndian.Uint32(b[64:68])

		// recompute over the record with the checksum field zeroed
		zeroed := append([]byte{}, b...)
		copy(zeroed[64:68], []byte{0, 0, 0, 0})

		var sum uint32
		for _, x := range zeroed {
			sum += uint32(x)
		}

		assert.Equal(t, ^sum, stored)
	}
}

func TestFooterUniqueID(t *testing.T) {

	a := NewFooter(2 * mib)
	b := NewFooter(2 * mib)
	assert.NotEqual(t, a.UniqueID, b.UniqueID)

	ab, err := a.MarshalBinary()
	require.NoError(t, err)
	bb, err := b.MarshalBinary()
	require.NoError(t, err)

	// identical except for the unique id and, through it, the checksum
	assert.False(t, bytes.Equal(ab, bb))
	for _, x := range [][]byte{ab, bb} {
		copy(x[64:84], make([]byte, 20))
	}
	assert.Equal(t, ab, bb)
}

func TestFooterRoundTrip(t *testing.T) {

	in := NewFooter(64 * mib)
	b, err := in.MarshalBinary()
	require.NoError(t, err)

	out := new(Footer)
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, in, out)
}
