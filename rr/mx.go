package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// MX is a mail exchange record (RFC 1035 §3.3.9).
type MX struct {
	Preference uint16
	Exchange   string
}

func (r *MX) Type() uint16 { return codes.TypeMX }

func (r *MX) ParseRDATA(rd *wire.Reader, rdlength int) error {
	pref, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	name, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	r.Preference = pref
	r.Exchange = name
	return nil
}

func (r *MX) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint16(r.Preference)
	return wire.EncodeName(w, r.Exchange, true)
}

func (r *MX) ParseText(tokens []string) error {
	if err := needTokens(tokens, 2, "MX"); err != nil {
		return err
	}
	pref, err := parseUint16Token(tokens[0])
	if err != nil {
		return err
	}
	r.Preference = pref
	r.Exchange = tokens[1]
	return nil
}

func (r *MX) FormatText() string {
	return itoaLen(int(r.Preference)) + " " + r.Exchange
}
