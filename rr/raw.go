package rr

import (
	"strconv"
	"strings"

	"github.com/dnsscience/dnsgo/wire"
)

// Raw is the fallback variant for any RR type the registry does not
// recognize (spec §4.4: "unknown types decode as a raw-bytes rdata variant
// with the original type code preserved"). It round-trips opaque RDATA
// without interpreting it.
type Raw struct {
	RRType uint16
	Data   []byte
}

func (r *Raw) Type() uint16 { return r.RRType }

func (r *Raw) ParseRDATA(rd *wire.Reader, rdlength int) error {
	b, err := rd.ReadBytes(rdlength)
	if err != nil {
		return err
	}
	r.Data = b
	return nil
}

func (r *Raw) SerializeRDATA(w *wire.Writer) error {
	w.WriteBytes(r.Data)
	return nil
}

// ParseText accepts the RFC 3597 "\# <len> <hex>" unknown-RR-type form.
func (r *Raw) ParseText(tokens []string) error {
	if len(tokens) >= 2 && tokens[0] == `\#` {
		tokens = tokens[2:]
	}
	b, err := hexDecode(strings.Join(tokens, ""))
	if err != nil {
		return err
	}
	r.Data = b
	return nil
}

func (r *Raw) FormatText() string {
	return `\# ` + strconv.Itoa(len(r.Data)) + " " + hexEncode(r.Data)
}
