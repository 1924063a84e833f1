package dnssec

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/rr"
)

// PrivateKey is the signing half of a key-file-parsed key (package
// keyfile constructs these). Algorithm is one of the codes.Alg*
// constants; RSA is the only family this package can sign with today
// (SPEC_FULL.md §4.8's resolved DSA open question).
type PrivateKey struct {
	Algorithm uint8
	RSA       *rsa.PrivateKey
}

func hashForAlgorithm(algorithm uint8) (crypto.Hash, error) {
	switch algorithm {
	case codes.AlgRSASHA1:
		return crypto.SHA1, nil
	case codes.AlgRSASHA256:
		return crypto.SHA256, nil
	case codes.AlgRSASHA512:
		return crypto.SHA512, nil
	case codes.AlgDSA, codes.AlgDSANSEC3SHA1:
		return 0, codes.Errorf(codes.KeyMaterial, "DSA signing is not supported (algorithm %d)", algorithm)
	default:
		return 0, codes.Errorf(codes.Authentication, "unsupported signing algorithm %d", algorithm)
	}
}

func digest(h crypto.Hash, data []byte) ([]byte, error) {
	switch h {
	case crypto.SHA1:
		sum := sha1.Sum(data)
		return sum[:], nil
	case crypto.SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case crypto.SHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	default:
		return nil, codes.New(codes.Resource, "unsupported digest algorithm")
	}
}

// SignRRset produces a complete RRSIG over set using key, filling in
// every RDATA field except Signature, which is computed here (RFC 4034
// §3.1.8.1). The caller supplies the validity window and key tag/owner
// (typically copied from the DNSKEY being used).
func SignRRset(set RRset, key PrivateKey, signerName string, keyTag uint16, inception, expiration uint32) (*rr.RRSIG, error) {
	if key.RSA == nil {
		return nil, codes.New(codes.Authentication, "private key has no RSA material")
	}
	h, err := hashForAlgorithm(key.Algorithm)
	if err != nil {
		return nil, err
	}

	sig := &rr.RRSIG{
		TypeCovered: set.Type,
		Algorithm:   key.Algorithm,
		Labels:      uint8(labelCount(set.Name)),
		OriginalTTL: set.TTL,
		Expiration:  expiration,
		Inception:   inception,
		KeyTag:      keyTag,
		SignerName:  signerName,
	}

	data, err := signedData(sig, set)
	if err != nil {
		return nil, err
	}
	sum, err := digest(h, data)
	if err != nil {
		return nil, err
	}
	signature, err := rsa.SignPKCS1v15(rand.Reader, key.RSA, h, sum)
	if err != nil {
		return nil, codes.Wrap(codes.Resource, "RSA sign", err)
	}
	sig.Signature = signature
	return sig, nil
}

// SignMessage produces a SIG(0) record covering msg (RFC 2931), to be
// appended to its additional section by the caller (unlike tsig.Sign,
// which appends its TSIG record itself).
func SignMessage(msg *message.Message, key PrivateKey, signerName string, keyTag uint16, inception, expiration uint32) (*rr.RRSIG, error) {
	if key.RSA == nil {
		return nil, codes.New(codes.Authentication, "private key has no RSA material")
	}
	h, err := hashForAlgorithm(key.Algorithm)
	if err != nil {
		return nil, err
	}

	sig := &rr.RRSIG{
		TypeCovered: 0, // SIG(0) covers the whole message, not one RR type
		Algorithm:   key.Algorithm,
		Labels:      0,
		OriginalTTL: 0,
		Expiration:  expiration,
		Inception:   inception,
		KeyTag:      keyTag,
		SignerName:  signerName,
	}

	data, err := messageSignedData(sig, msg)
	if err != nil {
		return nil, err
	}
	sum, err := digest(h, data)
	if err != nil {
		return nil, err
	}
	signature, err := rsa.SignPKCS1v15(rand.Reader, key.RSA, h, sum)
	if err != nil {
		return nil, codes.Wrap(codes.Resource, "RSA sign", err)
	}
	sig.Signature = signature
	return sig, nil
}

func labelCount(name string) int {
	n := 0
	inLabel := false
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			inLabel = false
			continue
		}
		if !inLabel {
			n++
			inLabel = true
		}
	}
	if name == "." || name == "" {
		return 0
	}
	return n
}
