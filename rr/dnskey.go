package rr

import (
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// dnskeyFields is the shared shape of DNSKEY and CDNSKEY (RFC 4034 §2,
// RFC 7344).
type dnskeyFields struct {
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

// ZoneKeyFlag marks a DNSKEY as usable to verify zone data, the only
// flag value this library produces or expects (RFC 4034 §2.1.1).
const ZoneKeyFlag = 1 << 8

// SecureEntryPointFlag marks a DNSKEY as a designated trust anchor
// (RFC 4034 §2.1.1, the "SEP" bit).
const SecureEntryPointFlag = 1

func (k *dnskeyFields) parseRDATA(rd *wire.Reader, rdlength int) error {
	if rdlength < 4 {
		return codes.New(codes.PacketMalformed, "DNSKEY RDATA shorter than its fixed fields")
	}
	flags, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	proto, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	alg, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	key, err := rd.ReadBytes(rdlength - 4)
	if err != nil {
		return err
	}
	k.Flags, k.Protocol, k.Algorithm, k.PublicKey = flags, proto, alg, key
	return nil
}

func (k *dnskeyFields) serializeRDATA(w *wire.Writer) error {
	w.WriteUint16(k.Flags)
	w.WriteUint8(k.Protocol)
	w.WriteUint8(k.Algorithm)
	w.WriteBytes(k.PublicKey)
	return nil
}

func (k *dnskeyFields) parseText(tokens []string) error {
	if err := needTokens(tokens, 4, "DNSKEY"); err != nil {
		return err
	}
	flags, err := parseUint16Token(tokens[0])
	if err != nil {
		return err
	}
	proto, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	alg, err := parseUint8Token(tokens[2])
	if err != nil {
		return err
	}
	key, err := b64decode(strings.Join(tokens[3:], ""))
	if err != nil {
		return err
	}
	k.Flags, k.Protocol, k.Algorithm, k.PublicKey = flags, proto, alg, key
	return nil
}

func (k *dnskeyFields) formatText() string {
	return itoaLen(int(k.Flags)) + " " + itoaLen(int(k.Protocol)) + " " +
		itoaLen(int(k.Algorithm)) + " " + b64encode(k.PublicKey)
}

// DNSKEY publishes a zone signing or key signing public key (RFC 4034 §2).
type DNSKEY struct{ dnskeyFields }

func (r *DNSKEY) Type() uint16                                      { return codes.TypeDNSKEY }
func (r *DNSKEY) ParseRDATA(rd *wire.Reader, rdlength int) error     { return r.parseRDATA(rd, rdlength) }
func (r *DNSKEY) SerializeRDATA(w *wire.Writer) error                { return r.serializeRDATA(w) }
func (r *DNSKEY) ParseText(tokens []string) error                    { return r.parseText(tokens) }
func (r *DNSKEY) FormatText() string                                 { return r.formatText() }

// CDNSKEY is a child-side publication of a DNSKEY intended for the
// parent to pick up (RFC 7344).
type CDNSKEY struct{ dnskeyFields }

func (r *CDNSKEY) Type() uint16                                  { return codes.TypeCDNSKEY }
func (r *CDNSKEY) ParseRDATA(rd *wire.Reader, rdlength int) error { return r.parseRDATA(rd, rdlength) }
func (r *CDNSKEY) SerializeRDATA(w *wire.Writer) error            { return r.serializeRDATA(w) }
func (r *CDNSKEY) ParseText(tokens []string) error                { return r.parseText(tokens) }
func (r *CDNSKEY) FormatText() string                             { return r.formatText() }
