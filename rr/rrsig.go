package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// RRSIG signs an RRset (RFC 4034 §3). The signer name is always serialized
// uncompressed, per §3.1 and spec §4.4's note that RRSIG's signer field is
// an exception to the usual compression rules for owner/RDATA names.
type RRSIG struct {
	TypeCovered uint16
	Algorithm   uint8
	Labels      uint8
	OriginalTTL uint32
	Expiration  uint32 // seconds since epoch (RFC 4034 §3.1.5 says "since 1 Jan 1970")
	Inception   uint32
	KeyTag      uint16
	SignerName  string
	Signature   []byte
}

func (r *RRSIG) Type() uint16 { return codes.TypeRRSIG }

func (r *RRSIG) ParseRDATA(rd *wire.Reader, rdlength int) error {
	end := rd.Off + rdlength
	if rdlength < 18 {
		return codes.New(codes.PacketMalformed, "RRSIG RDATA shorter than its fixed fields")
	}
	typeCovered, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	alg, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	labels, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	origTTL, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	exp, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	inc, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	tag, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	signer, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	if rd.Off > end {
		return codes.New(codes.PacketMalformed, "RRSIG signer name overran RDATA")
	}
	sig, err := rd.ReadBytes(end - rd.Off)
	if err != nil {
		return err
	}
	r.TypeCovered, r.Algorithm, r.Labels = typeCovered, alg, labels
	r.OriginalTTL, r.Expiration, r.Inception, r.KeyTag = origTTL, exp, inc, tag
	r.SignerName, r.Signature = signer, sig
	return nil
}

func (r *RRSIG) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint16(r.TypeCovered)
	w.WriteUint8(r.Algorithm)
	w.WriteUint8(r.Labels)
	w.WriteUint32(r.OriginalTTL)
	w.WriteUint32(r.Expiration)
	w.WriteUint32(r.Inception)
	w.WriteUint16(r.KeyTag)
	if err := wire.EncodeName(w, r.SignerName, false); err != nil {
		return err
	}
	w.WriteBytes(r.Signature)
	return nil
}

func (r *RRSIG) ParseText(tokens []string) error {
	if err := needTokens(tokens, 9, "RRSIG"); err != nil {
		return err
	}
	typeCovered, ok := typeFromToken(tokens[0])
	if !ok {
		return codes.Errorf(codes.PacketMalformed, "RRSIG: unknown type-covered %q", tokens[0])
	}
	alg, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	labels, err := parseUint8Token(tokens[2])
	if err != nil {
		return err
	}
	origTTL, err := parseUint32Token(tokens[3])
	if err != nil {
		return err
	}
	exp, err := parseUint32Token(tokens[4])
	if err != nil {
		return err
	}
	inc, err := parseUint32Token(tokens[5])
	if err != nil {
		return err
	}
	tag, err := parseUint16Token(tokens[6])
	if err != nil {
		return err
	}
	sig, err := b64decode(joinTokens(tokens[8:]))
	if err != nil {
		return err
	}
	r.TypeCovered, r.Algorithm, r.Labels = typeCovered, alg, labels
	r.OriginalTTL, r.Expiration, r.Inception, r.KeyTag = origTTL, exp, inc, tag
	r.SignerName = tokens[7]
	r.Signature = sig
	return nil
}

func (r *RRSIG) FormatText() string {
	return codes.TypeToString(r.TypeCovered) + " " + itoaLen(int(r.Algorithm)) + " " + itoaLen(int(r.Labels)) + " " +
		itoaLen(int(r.OriginalTTL)) + " " + itoaLen(int(r.Expiration)) + " " + itoaLen(int(r.Inception)) + " " +
		itoaLen(int(r.KeyTag)) + " " + r.SignerName + " " + b64encode(r.Signature)
}
