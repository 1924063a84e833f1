package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// SRV locates a service (RFC 2782). Unlike most RRs, the owner name is
// parsed at the message level (_service._proto.name); SRV itself only
// carries the four RDATA fields.
type SRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

func (r *SRV) Type() uint16 { return codes.TypeSRV }

func (r *SRV) ParseRDATA(rd *wire.Reader, rdlength int) error {
	prio, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	weight, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	port, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	target, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Port, r.Target = prio, weight, port, target
	return nil
}

func (r *SRV) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint16(r.Priority)
	w.WriteUint16(r.Weight)
	w.WriteUint16(r.Port)
	// SRV targets are never compressed (RFC 2782).
	return wire.EncodeName(w, r.Target, false)
}

func (r *SRV) ParseText(tokens []string) error {
	if err := needTokens(tokens, 4, "SRV"); err != nil {
		return err
	}
	prio, err := parseUint16Token(tokens[0])
	if err != nil {
		return err
	}
	weight, err := parseUint16Token(tokens[1])
	if err != nil {
		return err
	}
	port, err := parseUint16Token(tokens[2])
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Port, r.Target = prio, weight, port, tokens[3]
	return nil
}

func (r *SRV) FormatText() string {
	return itoaLen(int(r.Priority)) + " " + itoaLen(int(r.Weight)) + " " + itoaLen(int(r.Port)) + " " + r.Target
}
