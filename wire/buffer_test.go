package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPrimitives(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x00, 0x05, 0xAA, 0xBB}
	r := NewReader(data)

	v8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), v8)

	v16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x040005AA), v32)
	assert.Equal(t, 7, r.Off)
}

func TestReaderUnderrun(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint16()
	assert.Error(t, err)
}

func TestReaderCharString(t *testing.T) {
	r := NewReader([]byte{3, 'f', 'o', 'o'})
	s, err := r.ReadCharString()
	require.NoError(t, err)
	assert.Equal(t, "foo", s)
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(1)
	w.WriteUint16(0x0203)
	w.WriteUint32(0x04050607)
	require.NoError(t, w.WriteCharString("hi"))

	r := NewReader(w.Bytes())
	v8, _ := r.ReadUint8()
	v16, _ := r.ReadUint16()
	v32, _ := r.ReadUint32()
	s, _ := r.ReadCharString()

	assert.Equal(t, uint8(1), v8)
	assert.Equal(t, uint16(0x0203), v16)
	assert.Equal(t, uint32(0x04050607), v32)
	assert.Equal(t, "hi", s)
}

func TestPatchUint16(t *testing.T) {
	w := NewWriter()
	off := w.Len()
	w.WriteUint16(0)
	w.WriteBytes([]byte("abcde"))
	w.PatchUint16(off, 5)

	r := NewReader(w.Bytes())
	v, _ := r.ReadUint16()
	assert.Equal(t, uint16(5), v)
}

func TestReadUint48RoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteUint48(0x0102030405AB)
	r := NewReader(w.Bytes())
	v, err := r.ReadUint48()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405AB), v)
}
