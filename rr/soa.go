package rr

import (
	"strconv"
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// SOA marks the start of a zone of authority (RFC 1035 §3.3.13). It is
// relevant to this library mainly as the closing record of an AXFR stream
// (spec §4.6) and as the subject of serial-number comparisons.
type SOA struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

func (r *SOA) Type() uint16 { return codes.TypeSOA }

func (r *SOA) ParseRDATA(rd *wire.Reader, rdlength int) error {
	mname, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	rname, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	serial, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	refresh, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	retry, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	expire, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	minimum, err := rd.ReadUint32()
	if err != nil {
		return err
	}
	r.MName, r.RName = mname, rname
	r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum = serial, refresh, retry, expire, minimum
	return nil
}

func (r *SOA) SerializeRDATA(w *wire.Writer) error {
	if err := wire.EncodeName(w, r.MName, true); err != nil {
		return err
	}
	if err := wire.EncodeName(w, r.RName, true); err != nil {
		return err
	}
	w.WriteUint32(r.Serial)
	w.WriteUint32(r.Refresh)
	w.WriteUint32(r.Retry)
	w.WriteUint32(r.Expire)
	w.WriteUint32(r.Minimum)
	return nil
}

func (r *SOA) ParseText(tokens []string) error {
	if err := needTokens(tokens, 7, "SOA"); err != nil {
		return err
	}
	vals := make([]uint32, 5)
	for i := 0; i < 5; i++ {
		v, err := parseUint32Token(tokens[2+i])
		if err != nil {
			return err
		}
		vals[i] = v
	}
	r.MName, r.RName = tokens[0], tokens[1]
	r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum = vals[0], vals[1], vals[2], vals[3], vals[4]
	return nil
}

func (r *SOA) FormatText() string {
	fields := []string{
		r.MName, r.RName,
		strconv.FormatUint(uint64(r.Serial), 10),
		strconv.FormatUint(uint64(r.Refresh), 10),
		strconv.FormatUint(uint64(r.Retry), 10),
		strconv.FormatUint(uint64(r.Expire), 10),
		strconv.FormatUint(uint64(r.Minimum), 10),
	}
	return strings.Join(fields, " ")
}
