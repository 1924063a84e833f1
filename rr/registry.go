// Package rr implements the resource-record registry (spec §4.4): one
// variant per supported RR type, each able to parse its RDATA from wire,
// serialize it back to wire, and parse/format its zone-file presentation
// form. This is the tagged-variant-plus-dispatch-table design called for
// in spec §9 in place of the source's class-inheritance-per-subclass
// approach — one struct per type, exhaustively dispatched by type code,
// with no virtual call involved.
package rr

import (
	"fmt"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// Record is implemented by every RDATA variant in the registry. It knows
// nothing about the RR's name/class/ttl — those are common fields owned
// by the caller (package message); Record is only the tagged RDATA.
type Record interface {
	// Type returns this record's 16-bit RR type code.
	Type() uint16
	// ParseRDATA reads this record's RDATA from r, which is positioned at
	// the start of the RDATA within the full message buffer (so that
	// embedded domain names may use compression pointers into the rest
	// of the message, per spec §4.4). rdlength bounds how many bytes may
	// legitimately be consumed; the caller (not ParseRDATA) enforces that
	// exactly rdlength bytes were consumed.
	ParseRDATA(r *wire.Reader, rdlength int) error
	// SerializeRDATA appends this record's RDATA encoding to w.
	SerializeRDATA(w *wire.Writer) error
	// ParseText parses a zone-file presentation-form token sequence (the
	// RDATA portion only — name/ttl/class/type have already been consumed
	// by the caller) into this record.
	ParseText(tokens []string) error
	// FormatText renders this record's RDATA in zone-file presentation form.
	FormatText() string
}

// factory constructs a zero-valued Record for a given type code.
type factory func() Record

var registry = map[uint16]factory{
	codes.TypeA:          func() Record { return &A{} },
	codes.TypeAAAA:       func() Record { return &AAAA{} },
	codes.TypeNS:         func() Record { return &NS{} },
	codes.TypeCNAME:      func() Record { return &CNAME{} },
	codes.TypePTR:        func() Record { return &PTR{} },
	codes.TypeMX:         func() Record { return &MX{} },
	codes.TypeSOA:        func() Record { return &SOA{} },
	codes.TypeTXT:        func() Record { return &TXT{} },
	codes.TypeSRV:        func() Record { return &SRV{} },
	codes.TypeNAPTR:      func() Record { return &NAPTR{} },
	codes.TypeCAA:        func() Record { return &CAA{} },
	codes.TypeTLSA:       func() Record { return &TLSA{} },
	codes.TypeSSHFP:      func() Record { return &SSHFP{} },
	codes.TypeOPT:        func() Record { return &OPT{} },
	codes.TypeDNSKEY:     func() Record { return &DNSKEY{} },
	codes.TypeCDNSKEY:    func() Record { return &CDNSKEY{} },
	codes.TypeDS:         func() Record { return &DS{} },
	codes.TypeCDS:        func() Record { return &CDS{} },
	codes.TypeRRSIG:      func() Record { return &RRSIG{} },
	codes.TypeNSEC:       func() Record { return &NSEC{} },
	codes.TypeNSEC3:      func() Record { return &NSEC3{} },
	codes.TypeNSEC3PARAM: func() Record { return &NSEC3PARAM{} },
	codes.TypeTSIG:       func() Record { return &TSIG{} },
}

// New returns a zero-valued Record for rtype, or a *Raw preserving the
// original type code if rtype is not one the registry knows (spec §4.4:
// "Unknown types decode as a raw-bytes rdata variant with the original
// type code preserved").
func New(rtype uint16) Record {
	if f, ok := registry[rtype]; ok {
		return f()
	}
	return &Raw{RRType: rtype}
}

// Decode reads rdlength bytes of RDATA for rtype from r (positioned at
// the start of RDATA) and returns the typed Record. It enforces that
// exactly rdlength bytes were consumed, per spec §4.5.
func Decode(r *wire.Reader, rtype uint16, rdlength int) (Record, error) {
	start := r.Off
	rec := New(rtype)
	if err := rec.ParseRDATA(r, rdlength); err != nil {
		return nil, err
	}
	consumed := r.Off - start
	if consumed != rdlength {
		return nil, codes.New(codes.PacketMalformed,
			fmt.Sprintf("RR type %s: consumed %d bytes, rdlength declared %d", codes.TypeToString(rtype), consumed, rdlength))
	}
	return rec, nil
}
