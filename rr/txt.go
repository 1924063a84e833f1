package rr

import (
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// TXT carries one or more opaque character-strings (RFC 1035 §3.3.14).
type TXT struct {
	Strings []string
}

func (r *TXT) Type() uint16 { return codes.TypeTXT }

func (r *TXT) ParseRDATA(rd *wire.Reader, rdlength int) error {
	end := rd.Off + rdlength
	var parts []string
	for rd.Off < end {
		s, err := rd.ReadCharString()
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	if rd.Off != end {
		return codes.New(codes.PacketMalformed, "TXT character-strings overran RDATA")
	}
	r.Strings = parts
	return nil
}

func (r *TXT) SerializeRDATA(w *wire.Writer) error {
	if len(r.Strings) == 0 {
		return w.WriteCharString("")
	}
	for _, s := range r.Strings {
		if err := w.WriteCharString(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *TXT) ParseText(tokens []string) error {
	if len(tokens) == 0 {
		r.Strings = []string{""}
		return nil
	}
	strs := make([]string, len(tokens))
	for i, t := range tokens {
		strs[i] = unquoteTXT(t)
	}
	r.Strings = strs
	return nil
}

func (r *TXT) FormatText() string {
	quoted := make([]string, len(r.Strings))
	for i, s := range r.Strings {
		quoted[i] = quoteTXT(s)
	}
	return strings.Join(quoted, " ")
}
