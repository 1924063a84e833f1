package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// CAA restricts which certificate authorities may issue for a name
// (RFC 6844).
type CAA struct {
	Flag  uint8
	Tag   string
	Value string
}

func (r *CAA) Type() uint16 { return codes.TypeCAA }

func (r *CAA) ParseRDATA(rd *wire.Reader, rdlength int) error {
	flag, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	tag, err := rd.ReadCharString()
	if err != nil {
		return err
	}
	valueLen := rdlength - 2 - len(tag)
	if valueLen < 0 {
		return codes.New(codes.PacketMalformed, "CAA RDATA shorter than its tag field")
	}
	value, err := rd.ReadBytes(valueLen)
	if err != nil {
		return err
	}
	r.Flag, r.Tag, r.Value = flag, tag, string(value)
	return nil
}

func (r *CAA) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint8(r.Flag)
	if err := w.WriteCharString(r.Tag); err != nil {
		return err
	}
	w.WriteBytes([]byte(r.Value))
	return nil
}

func (r *CAA) ParseText(tokens []string) error {
	if err := needTokens(tokens, 3, "CAA"); err != nil {
		return err
	}
	flag, err := parseUint8Token(tokens[0])
	if err != nil {
		return err
	}
	r.Flag = flag
	r.Tag = tokens[1]
	r.Value = unquoteTXT(tokens[2])
	return nil
}

func (r *CAA) FormatText() string {
	return itoaLen(int(r.Flag)) + " " + r.Tag + " " + quoteTXT(r.Value)
}
