package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// TLSA associates a TLS certificate or public key with a name, for DANE
// (RFC 6698).
type TLSA struct {
	CertUsage    uint8
	Selector     uint8
	MatchingType uint8
	Certificate  []byte
}

func (r *TLSA) Type() uint16 { return codes.TypeTLSA }

func (r *TLSA) ParseRDATA(rd *wire.Reader, rdlength int) error {
	if rdlength < 3 {
		return codes.New(codes.PacketMalformed, "TLSA RDATA shorter than its fixed fields")
	}
	usage, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	selector, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	matching, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	cert, err := rd.ReadBytes(rdlength - 3)
	if err != nil {
		return err
	}
	r.CertUsage, r.Selector, r.MatchingType, r.Certificate = usage, selector, matching, cert
	return nil
}

func (r *TLSA) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint8(r.CertUsage)
	w.WriteUint8(r.Selector)
	w.WriteUint8(r.MatchingType)
	w.WriteBytes(r.Certificate)
	return nil
}

func (r *TLSA) ParseText(tokens []string) error {
	if err := needTokens(tokens, 4, "TLSA"); err != nil {
		return err
	}
	usage, err := parseUint8Token(tokens[0])
	if err != nil {
		return err
	}
	selector, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	matching, err := parseUint8Token(tokens[2])
	if err != nil {
		return err
	}
	cert, err := hexDecode(tokens[3])
	if err != nil {
		return err
	}
	r.CertUsage, r.Selector, r.MatchingType, r.Certificate = usage, selector, matching, cert
	return nil
}

func (r *TLSA) FormatText() string {
	return itoaLen(int(r.CertUsage)) + " " + itoaLen(int(r.Selector)) + " " +
		itoaLen(int(r.MatchingType)) + " " + hexEncode(r.Certificate)
}
