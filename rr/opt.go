package rr

import (
	"strconv"
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// EDNS0 option codes this library understands explicitly (RFC 6891,
// RFC 7873).
const (
	OptCodeCookie = 10
)

// EDNSOption is one TLV entry inside an OPT RR's RDATA.
type EDNSOption struct {
	Code uint16
	Data []byte
}

// OPT is the EDNS0 pseudo-RR (RFC 6891 §6.1). It never appears as an
// ordinary answer record; it rides in the additional section and folds
// the base header's 4-bit RCODE together with an 8-bit extension into a
// 12-bit extended RCODE, alongside the EDNS version and payload size.
//
// OPT's owner name is always the root and its "class" field is repurposed
// to carry the requestor's UDP payload size — the message layer writes
// the root owner name and copies that class field to and from UDPSize;
// ParseRDATA/SerializeRDATA here handle only the option list.
type OPT struct {
	// UDPSize mirrors the RR's class field: the message layer fills it
	// in on decode and writes it as the class on encode; the resolver
	// sets it when building a query's OPT record.
	UDPSize uint16

	ExtendedRcode uint8 // upper 8 bits of the 12-bit extended RCODE
	Version       uint8
	DO            bool // DNSSEC OK bit (RFC 3225)
	Options       []EDNSOption
}

func (r *OPT) Type() uint16 { return codes.TypeOPT }

// ParseRDATA reads only the option list. ExtendedRcode/Version/DO come
// from the RR's TTL field, which the message layer passes in through
// SetTTLFields after this call returns — see SetTTLFields.
func (r *OPT) ParseRDATA(rd *wire.Reader, rdlength int) error {
	end := rd.Off + rdlength
	var opts []EDNSOption
	for rd.Off < end {
		code, err := rd.ReadUint16()
		if err != nil {
			return err
		}
		length, err := rd.ReadUint16()
		if err != nil {
			return err
		}
		data, err := rd.ReadBytes(int(length))
		if err != nil {
			return err
		}
		opts = append(opts, EDNSOption{Code: code, Data: data})
	}
	if rd.Off != end {
		return codes.New(codes.PacketMalformed, "OPT options overran RDATA")
	}
	r.Options = opts
	return nil
}

func (r *OPT) SerializeRDATA(w *wire.Writer) error {
	for _, opt := range r.Options {
		w.WriteUint16(opt.Code)
		w.WriteUint16(uint16(len(opt.Data)))
		w.WriteBytes(opt.Data)
	}
	return nil
}

// SetTTLFields decodes OPT's TTL-encoded fields (RFC 6891 §6.1.3):
// extended RCODE (high 8 bits), version (next 8 bits), DO bit, then zero.
func (r *OPT) SetTTLFields(ttl uint32) {
	r.ExtendedRcode = uint8(ttl >> 24)
	r.Version = uint8(ttl >> 16)
	r.DO = ttl&0x00008000 != 0
}

// TTLFields re-encodes ExtendedRcode/Version/DO into the RR's TTL field.
func (r *OPT) TTLFields() uint32 {
	var ttl uint32
	ttl |= uint32(r.ExtendedRcode) << 24
	ttl |= uint32(r.Version) << 16
	if r.DO {
		ttl |= 0x00008000
	}
	return ttl
}

// Cookie returns the client/server cookie option's raw value, if present.
func (r *OPT) Cookie() ([]byte, bool) {
	for _, o := range r.Options {
		if o.Code == OptCodeCookie {
			return o.Data, true
		}
	}
	return nil, false
}

// SetCookie installs (replacing any existing) a cookie option.
func (r *OPT) SetCookie(value []byte) {
	for i, o := range r.Options {
		if o.Code == OptCodeCookie {
			r.Options[i].Data = value
			return
		}
	}
	r.Options = append(r.Options, EDNSOption{Code: OptCodeCookie, Data: value})
}

func (r *OPT) ParseText(tokens []string) error {
	return codes.New(codes.PacketMalformed, "OPT has no zone-file presentation form")
}

func (r *OPT) FormatText() string {
	parts := make([]string, len(r.Options))
	for i, o := range r.Options {
		parts[i] = strconv.Itoa(int(o.Code)) + ":" + hexEncode(o.Data)
	}
	return strings.Join(parts, " ")
}
