package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// dsFields is the shared shape of DS and CDS (RFC 4034 §5, RFC 7344): a
// delegation signer digest over a child DNSKEY.
type dsFields struct {
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (d *dsFields) parseRDATA(rd *wire.Reader, rdlength int) error {
	if rdlength < 4 {
		return codes.New(codes.PacketMalformed, "DS RDATA shorter than its fixed fields")
	}
	tag, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	alg, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	dtype, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	digest, err := rd.ReadBytes(rdlength - 4)
	if err != nil {
		return err
	}
	d.KeyTag, d.Algorithm, d.DigestType, d.Digest = tag, alg, dtype, digest
	return nil
}

func (d *dsFields) serializeRDATA(w *wire.Writer) error {
	w.WriteUint16(d.KeyTag)
	w.WriteUint8(d.Algorithm)
	w.WriteUint8(d.DigestType)
	w.WriteBytes(d.Digest)
	return nil
}

func (d *dsFields) parseText(tokens []string) error {
	if err := needTokens(tokens, 4, "DS"); err != nil {
		return err
	}
	tag, err := parseUint16Token(tokens[0])
	if err != nil {
		return err
	}
	alg, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	dtype, err := parseUint8Token(tokens[2])
	if err != nil {
		return err
	}
	digest, err := hexDecode(tokens[3])
	if err != nil {
		return err
	}
	d.KeyTag, d.Algorithm, d.DigestType, d.Digest = tag, alg, dtype, digest
	return nil
}

func (d *dsFields) formatText() string {
	return itoaLen(int(d.KeyTag)) + " " + itoaLen(int(d.Algorithm)) + " " +
		itoaLen(int(d.DigestType)) + " " + hexEncode(d.Digest)
}

// DS is a delegation signer record placed in the parent zone (RFC 4034 §5).
type DS struct{ dsFields }

func (r *DS) Type() uint16                                  { return codes.TypeDS }
func (r *DS) ParseRDATA(rd *wire.Reader, rdlength int) error { return r.parseRDATA(rd, rdlength) }
func (r *DS) SerializeRDATA(w *wire.Writer) error            { return r.serializeRDATA(w) }
func (r *DS) ParseText(tokens []string) error                { return r.parseText(tokens) }
func (r *DS) FormatText() string                             { return r.formatText() }

// CDS is a child-side publication of a DS intended for the parent to pick
// up (RFC 7344).
type CDS struct{ dsFields }

func (r *CDS) Type() uint16                                  { return codes.TypeCDS }
func (r *CDS) ParseRDATA(rd *wire.Reader, rdlength int) error { return r.parseRDATA(rd, rdlength) }
func (r *CDS) SerializeRDATA(w *wire.Writer) error            { return r.serializeRDATA(w) }
func (r *CDS) ParseText(tokens []string) error                { return r.parseText(tokens) }
func (r *CDS) FormatText() string                             { return r.formatText() }
