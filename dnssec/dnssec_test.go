package dnssec

import (
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/rr"
	"github.com/dnsscience/dnsgo/wire"
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	key.Precompute()
	return key
}

func dnskeyFor(t *testing.T, priv *rsa.PrivateKey, algorithm uint8) *rr.DNSKEY {
	t.Helper()
	eBytes := big.NewInt(int64(priv.PublicKey.E)).Bytes()
	var rdata []byte
	if len(eBytes) <= 0xFF {
		rdata = append(rdata, byte(len(eBytes)))
	} else {
		rdata = append(rdata, 0, byte(len(eBytes)>>8), byte(len(eBytes)))
	}
	rdata = append(rdata, eBytes...)
	rdata = append(rdata, priv.PublicKey.N.Bytes()...)

	w := wire.NewWriter()
	w.WriteUint16(rr.ZoneKeyFlag)
	w.WriteUint8(3)
	w.WriteUint8(algorithm)
	w.WriteBytes(rdata)

	key := &rr.DNSKEY{}
	r := wire.NewReader(w.Bytes())
	require.NoError(t, key.ParseRDATA(r, len(w.Bytes())))
	return key
}

func TestKeyTagIsNonZeroAndDeterministic(t *testing.T) {
	priv := testRSAKey(t)
	key := dnskeyFor(t, priv, codes.AlgRSASHA256)

	tag := KeyTag(key)
	require.NotZero(t, tag)

	// key tag is deterministic given the same RDATA bytes.
	require.Equal(t, tag, KeyTag(key))
}

func TestKeyTagRSAMD5UsesTrailingOctets(t *testing.T) {
	priv := testRSAKey(t)
	key := dnskeyFor(t, priv, codes.AlgRSAMD5)

	rdata := encodeDNSKEYRDATA(key.Flags, key.Protocol, key.Algorithm, key.PublicKey)
	want := uint16(rdata[len(rdata)-3])<<8 | uint16(rdata[len(rdata)-2])
	require.Equal(t, want, KeyTag(key))
}

func TestSignAndVerifyRRsetRoundTrip(t *testing.T) {
	priv := testRSAKey(t)
	pub := PublicKey{Algorithm: codes.AlgRSASHA256, RSA: &priv.PublicKey}

	set := RRset{
		Name:  "example.com.",
		Type:  codes.TypeA,
		Class: codes.ClassIN,
		TTL:   3600,
		Data: []rr.Record{
			&rr.A{Address: net.IPv4(192, 0, 2, 1).To4()},
			&rr.A{Address: net.IPv4(192, 0, 2, 2).To4()},
		},
	}

	sig, err := SignRRset(set, PrivateKey{Algorithm: codes.AlgRSASHA256, RSA: priv}, "example.com.", 12345, 1000, 2000)
	require.NoError(t, err)
	require.Equal(t, codes.TypeA, sig.TypeCovered)

	require.NoError(t, VerifyRRset(sig, set, pub))
}

func TestVerifyRRsetFailsOnTamperedData(t *testing.T) {
	priv := testRSAKey(t)
	pub := PublicKey{Algorithm: codes.AlgRSASHA256, RSA: &priv.PublicKey}

	set := RRset{
		Name:  "example.com.",
		Type:  codes.TypeA,
		Class: codes.ClassIN,
		TTL:   3600,
		Data:  []rr.Record{&rr.A{Address: net.IPv4(192, 0, 2, 1).To4()}},
	}

	sig, err := SignRRset(set, PrivateKey{Algorithm: codes.AlgRSASHA256, RSA: priv}, "example.com.", 12345, 1000, 2000)
	require.NoError(t, err)

	tampered := set
	tampered.Data = []rr.Record{&rr.A{Address: net.IPv4(192, 0, 2, 99).To4()}}
	require.Error(t, VerifyRRset(sig, tampered, pub))
}

func TestVerifyRRsetRejectsTypeCoveredMismatch(t *testing.T) {
	priv := testRSAKey(t)
	pub := PublicKey{Algorithm: codes.AlgRSASHA256, RSA: &priv.PublicKey}

	set := RRset{Name: "example.com.", Type: codes.TypeA, Class: codes.ClassIN, TTL: 300,
		Data: []rr.Record{&rr.A{Address: net.IPv4(192, 0, 2, 1).To4()}}}
	sig, err := SignRRset(set, PrivateKey{Algorithm: codes.AlgRSASHA256, RSA: priv}, "example.com.", 1, 0, 0)
	require.NoError(t, err)

	other := set
	other.Type = codes.TypeAAAA
	require.ErrorIs(t, VerifyRRset(sig, other, pub), errTypeCoveredMismatch)
}

func TestSignAndVerifyMessageSIG0RoundTrip(t *testing.T) {
	priv := testRSAKey(t)
	pub := PublicKey{Algorithm: codes.AlgRSASHA256, RSA: &priv.PublicKey}

	msg := &message.Message{
		Header:   wire.Header{ID: 0x1234, RD: true},
		Question: []message.Question{{Name: "example.com.", Type: codes.TypeA, Class: codes.ClassIN}},
	}

	sig, err := SignMessage(msg, PrivateKey{Algorithm: codes.AlgRSASHA256, RSA: priv}, "example.com.", 999, 1000, 2000)
	require.NoError(t, err)

	require.NoError(t, VerifyMessage(sig, msg, pub))
}

func TestVerifyMessageFailsWhenMessageChanges(t *testing.T) {
	priv := testRSAKey(t)
	pub := PublicKey{Algorithm: codes.AlgRSASHA256, RSA: &priv.PublicKey}

	msg := &message.Message{
		Header:   wire.Header{ID: 0x1234, RD: true},
		Question: []message.Question{{Name: "example.com.", Type: codes.TypeA, Class: codes.ClassIN}},
	}
	sig, err := SignMessage(msg, PrivateKey{Algorithm: codes.AlgRSASHA256, RSA: priv}, "example.com.", 999, 1000, 2000)
	require.NoError(t, err)

	msg.Header.ID = 0x4321
	require.Error(t, VerifyMessage(sig, msg, pub))
}

func TestPublicKeyFromDNSKEYParsesRSARDATA(t *testing.T) {
	priv := testRSAKey(t)
	key := dnskeyFor(t, priv, codes.AlgRSASHA256)

	pub, err := PublicKeyFromDNSKEY(key)
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey.N, pub.RSA.N)
	require.Equal(t, priv.PublicKey.E, pub.RSA.E)
}

func TestPublicKeyFromDNSKEYRejectsDSA(t *testing.T) {
	priv := testRSAKey(t)
	key := dnskeyFor(t, priv, codes.AlgDSA)

	_, err := PublicKeyFromDNSKEY(key)
	require.Error(t, err)
}
