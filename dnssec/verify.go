package dnssec

import (
	"crypto/rsa"
	"math/big"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/rr"
)

// PublicKey is the verification half of a DNSKEY, derived from its
// RDATA (package keyfile builds the private-key counterpart; a bare
// DNSKEY response can be turned into this directly via
// PublicKeyFromDNSKEY).
type PublicKey struct {
	Algorithm uint8
	RSA       *rsa.PublicKey
}

// PublicKeyFromDNSKEY parses an RSA public key out of a DNSKEY's RDATA
// (RFC 3110 §2): a one-octet exponent length (or zero meaning the next
// two octets carry a 16-bit length), the exponent, then the modulus.
func PublicKeyFromDNSKEY(key *rr.DNSKEY) (PublicKey, error) {
	return publicKeyFromRSARDATA(key.Algorithm, key.PublicKey)
}

func publicKeyFromRSARDATA(algorithm uint8, rdata []byte) (PublicKey, error) {
	switch algorithm {
	case codes.AlgRSASHA1, codes.AlgRSASHA256, codes.AlgRSASHA512:
	case codes.AlgDSA, codes.AlgDSANSEC3SHA1:
		return PublicKey{}, codes.Errorf(codes.KeyMaterial, "DSA verification is not supported (algorithm %d)", algorithm)
	default:
		return PublicKey{}, codes.Errorf(codes.Authentication, "unsupported verification algorithm %d", algorithm)
	}

	if len(rdata) < 3 {
		return PublicKey{}, codes.New(codes.PacketMalformed, "DNSKEY public key too short")
	}

	expLen := int(rdata[0])
	off := 1
	if expLen == 0 {
		if len(rdata) < 3 {
			return PublicKey{}, codes.New(codes.PacketMalformed, "DNSKEY public key too short for extended exponent length")
		}
		expLen = int(rdata[1])<<8 | int(rdata[2])
		off = 3
	}
	if off+expLen > len(rdata) {
		return PublicKey{}, codes.New(codes.PacketMalformed, "DNSKEY exponent runs past RDATA")
	}

	e := new(big.Int).SetBytes(rdata[off : off+expLen])
	modulus := rdata[off+expLen:]
	if len(modulus) == 0 {
		return PublicKey{}, codes.New(codes.PacketMalformed, "DNSKEY modulus is empty")
	}
	n := new(big.Int).SetBytes(modulus)

	pub := &rsa.PublicKey{N: n, E: int(e.Int64())}
	return PublicKey{Algorithm: algorithm, RSA: pub}, nil
}

// VerifyRRset checks sig against set using key (RFC 4034 §3.1.8.1).
func VerifyRRset(sig *rr.RRSIG, set RRset, key PublicKey) error {
	if err := checkTypeCovered(sig, set); err != nil {
		return err
	}
	if key.RSA == nil {
		return codes.New(codes.Authentication, "public key has no RSA material")
	}
	h, err := hashForAlgorithm(sig.Algorithm)
	if err != nil {
		return err
	}
	data, err := signedData(sig, set)
	if err != nil {
		return err
	}
	sum, err := digest(h, data)
	if err != nil {
		return err
	}
	if err := rsa.VerifyPKCS1v15(key.RSA, h, sum, sig.Signature); err != nil {
		return codes.Wrap(codes.Authentication, "RRSIG signature verification failed", err)
	}
	return nil
}

// VerifyMessage checks a SIG(0) record against the message it covers
// (RFC 2931 §4). sig is typically the last record of msg's additional
// section; msg must be passed with that SIG(0) record already removed
// by the caller (unlike tsig.Verify, which strips its own record).
func VerifyMessage(sig *rr.RRSIG, msg *message.Message, key PublicKey) error {
	if key.RSA == nil {
		return codes.New(codes.Authentication, "public key has no RSA material")
	}
	h, err := hashForAlgorithm(sig.Algorithm)
	if err != nil {
		return err
	}
	data, err := messageSignedData(sig, msg)
	if err != nil {
		return err
	}
	sum, err := digest(h, data)
	if err != nil {
		return err
	}
	if err := rsa.VerifyPKCS1v15(key.RSA, h, sum, sig.Signature); err != nil {
		return codes.Wrap(codes.Authentication, "SIG(0) verification failed", err)
	}
	return nil
}
