package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		ID:      0x1234,
		QR:      true,
		Opcode:  2,
		AA:      true,
		TC:      false,
		RD:      true,
		RA:      true,
		AD:      true,
		Rcode:   3,
		QDCount: 1,
		ANCount: 2,
		NSCount: 3,
		ARCount: 4,
	}

	w := NewWriter()
	h.Encode(w)
	assert.Equal(t, HeaderSize, w.Len())

	r := NewReader(w.Bytes())
	got, err := DecodeHeader(r)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	r := NewReader(make([]byte, 4))
	_, err := DecodeHeader(r)
	assert.Error(t, err)
}

func TestHeaderFlagBits(t *testing.T) {
	// QR=1, Opcode=QUERY(0), AA=0, TC=0, RD=1, RA=1, Z=0, AD=0, CD=0, RCODE=0
	// matches a typical recursive-desired response: 0x8180.
	w := NewWriter()
	h := Header{QR: true, RD: true, RA: true}
	h.Encode(w)

	r := NewReader(w.Bytes())
	_, _ = r.ReadUint16() // ID
	flags, _ := r.ReadUint16()
	assert.Equal(t, uint16(0x8180), flags)
}
