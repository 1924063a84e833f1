package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeNameRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, EncodeName(w, "www.example.com.", false))

	r := NewReader(w.Bytes())
	name, err := DecodeName(r)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", name)
	assert.Equal(t, w.Len(), r.Off)
}

func TestDecodeNameWithCompression(t *testing.T) {
	w := NewWriter()
	require.NoError(t, EncodeName(w, "example.com.", true))
	firstOff := 0
	require.NoError(t, EncodeName(w, "www.example.com.", true))

	r := NewReader(w.Bytes())
	r.Off = firstOff
	first, err := DecodeName(r)
	require.NoError(t, err)
	assert.Equal(t, "example.com.", first)

	second, err := DecodeName(r)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", second)
}

func TestDecodeNameRejectsForwardPointer(t *testing.T) {
	// A pointer at offset 0 pointing to offset 2 (forward) must be rejected.
	data := []byte{0xC0, 0x02, 0x00}
	r := NewReader(data)
	_, err := DecodeName(r)
	assert.Error(t, err)
}

func TestDecodeNameRejectsSelfPointer(t *testing.T) {
	data := []byte{0xC0, 0x00}
	r := NewReader(data)
	_, err := DecodeName(r)
	assert.Error(t, err)
}

func TestDecodeNameRejectsOversizedLabel(t *testing.T) {
	data := append([]byte{64}, make([]byte, 64)...)
	r := NewReader(data)
	_, err := DecodeName(r)
	assert.Error(t, err)
}

func TestEncodeNameRejectsEmptyLabel(t *testing.T) {
	w := NewWriter()
	err := EncodeName(w, "www..example.com.", false)
	assert.Error(t, err)
}

func TestEqualNames(t *testing.T) {
	assert.True(t, EqualNames("WwW.ExAmPlE.CoM.", "www.example.com"))
	assert.False(t, EqualNames("www.example.com.", "www.example.net."))
}

func TestCanonicalNameBytesLowercases(t *testing.T) {
	a, err := CanonicalNameBytes("WWW.Example.COM.")
	require.NoError(t, err)
	b, err := CanonicalNameBytes("www.example.com.")
	require.NoError(t, err)
	assert.Equal(t, b, a)
}
