package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/rr"
	"github.com/dnsscience/dnsgo/wire"
)

func TestEncodeMXQuery(t *testing.T) {
	m := &Message{
		Header: newQueryHeader(0x1234),
		Question: []Question{
			{Name: "google.com.", Type: codes.TypeMX, Class: codes.ClassIN},
		},
	}

	data, err := Encode(m)
	require.NoError(t, err)

	want := []byte{
		0x12, 0x34, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x06, 'g', 'o', 'o', 'g', 'l', 'e', 0x03, 'c', 'o', 'm', 0x00,
		0x00, 0x0F, 0x00, 0x01,
	}
	assert.Equal(t, want, data)
	assert.Len(t, data, 28)
}

func TestDecodeMXQuery(t *testing.T) {
	data := []byte{
		0x12, 0x34, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x06, 'g', 'o', 'o', 'g', 'l', 'e', 0x03, 'c', 'o', 'm', 0x00,
		0x00, 0x0F, 0x00, 0x01,
	}

	m, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), m.Header.ID)
	assert.True(t, m.Header.RD)
	require.Len(t, m.Question, 1)
	assert.Equal(t, "google.com.", m.Question[0].Name)
	assert.EqualValues(t, codes.TypeMX, m.Question[0].Type)
}

func TestEncodeDecodeAnswerRoundTrip(t *testing.T) {
	m := &Message{
		Header: newQueryHeader(0x4321),
		Question: []Question{
			{Name: "example.com.", Type: codes.TypeMX, Class: codes.ClassIN},
		},
		Answer: []RR{
			{
				Name: "example.com.", Type: codes.TypeMX, Class: codes.ClassIN, TTL: 3600,
				Data: &rr.MX{Preference: 10, Exchange: "mail.example.com."},
			},
		},
	}
	m.Header.QR = true
	m.Header.AA = true

	data, err := Encode(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Answer, 1)
	mx, ok := decoded.Answer[0].Data.(*rr.MX)
	require.True(t, ok)
	assert.Equal(t, uint16(10), mx.Preference)
	assert.Equal(t, "mail.example.com.", mx.Exchange)
	assert.Equal(t, uint32(3600), decoded.Answer[0].TTL)
}

func TestOPTRoundTripsTTLFields(t *testing.T) {
	opt := &rr.OPT{UDPSize: 4096, DO: true, Version: 0}
	opt.SetCookie([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	m := &Message{
		Header: newQueryHeader(1),
		Additional: []RR{
			{Name: ".", Type: codes.TypeOPT, Data: opt},
		},
	}

	data, err := Encode(m)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Additional, 1)
	got, ok := decoded.Additional[0].Data.(*rr.OPT)
	require.True(t, ok)
	assert.Equal(t, uint16(4096), got.UDPSize)
	assert.True(t, got.DO)
	cookie, ok := got.Cookie()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, cookie)
}

func TestDecodeRejectsTruncatedRDATA(t *testing.T) {
	data := []byte{
		0x00, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 0x00,
		0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x0E, 0x10, 0x00, 0x04, 0x01, 0x02, // RDLENGTH=4 but only 2 bytes follow
	}
	_, err := Decode(data)
	assert.Error(t, err)
}

func newQueryHeader(id uint16) wire.Header {
	return wire.Header{ID: id, RD: true}
}
