package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// NAPTR is a naming-authority pointer (RFC 3403), used among other things
// for ENUM and SIP service discovery.
type NAPTR struct {
	Order       uint16
	Preference  uint16
	Flags       string
	Services    string
	Regexp      string
	Replacement string
}

func (r *NAPTR) Type() uint16 { return codes.TypeNAPTR }

func (r *NAPTR) ParseRDATA(rd *wire.Reader, rdlength int) error {
	order, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	pref, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	flags, err := rd.ReadCharString()
	if err != nil {
		return err
	}
	services, err := rd.ReadCharString()
	if err != nil {
		return err
	}
	regexp, err := rd.ReadCharString()
	if err != nil {
		return err
	}
	// NAPTR's replacement is a domain name but is never compressed
	// (RFC 3403 §3).
	replacement, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	r.Order, r.Preference = order, pref
	r.Flags, r.Services, r.Regexp, r.Replacement = flags, services, regexp, replacement
	return nil
}

func (r *NAPTR) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint16(r.Order)
	w.WriteUint16(r.Preference)
	if err := w.WriteCharString(r.Flags); err != nil {
		return err
	}
	if err := w.WriteCharString(r.Services); err != nil {
		return err
	}
	if err := w.WriteCharString(r.Regexp); err != nil {
		return err
	}
	return wire.EncodeName(w, r.Replacement, false)
}

func (r *NAPTR) ParseText(tokens []string) error {
	if err := needTokens(tokens, 6, "NAPTR"); err != nil {
		return err
	}
	order, err := parseUint16Token(tokens[0])
	if err != nil {
		return err
	}
	pref, err := parseUint16Token(tokens[1])
	if err != nil {
		return err
	}
	r.Order, r.Preference = order, pref
	r.Flags = unquoteTXT(tokens[2])
	r.Services = unquoteTXT(tokens[3])
	r.Regexp = unquoteTXT(tokens[4])
	r.Replacement = tokens[5]
	return nil
}

func (r *NAPTR) FormatText() string {
	return itoaLen(int(r.Order)) + " " + itoaLen(int(r.Preference)) + " " +
		quoteTXT(r.Flags) + " " + quoteTXT(r.Services) + " " + quoteTXT(r.Regexp) + " " + r.Replacement
}
