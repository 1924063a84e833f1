// Package message assembles and disassembles whole DNS packets: the
// header, the question section, and the three RR sections (spec §4.5).
// It sits above wire (buffer/name/header primitives) and rr (the RDATA
// registry), tying both together — this is the layering the source's
// monolithic request/response classes collapsed into one place, split
// here because the wire cursor and the RDATA registry are each useful
// without the other (dnssec and tsig operate directly on wire and rr).
package message

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/rr"
	"github.com/dnsscience/dnsgo/wire"
)

// Question is one entry in the question section (RFC 1035 §4.1.2).
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// RR is one resource record: the common name/type/class/ttl prefix plus
// its typed RDATA. For the OPT pseudo-RR, Class and TTL are derived from
// Data.(*rr.OPT) rather than read directly — see Encode/Decode.
type RR struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   uint32
	Data  rr.Record
}

// Message is a full DNS packet (RFC 1035 §4.1): the header plus its four
// sections. Section slice lengths are kept in sync with the header's
// count fields by Encode/Decode, not by the caller (spec §3's packet
// invariant: header counts equal section lengths).
type Message struct {
	Header     wire.Header
	Question   []Question
	Answer     []RR
	Authority  []RR
	Additional []RR
}

// Decode parses a complete DNS packet from data.
func Decode(data []byte) (*Message, error) {
	r := wire.NewReader(data)
	h, err := wire.DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	m := &Message{Header: h}

	m.Question = make([]Question, 0, h.QDCount)
	for i := 0; i < int(h.QDCount); i++ {
		q, err := decodeQuestion(r)
		if err != nil {
			return nil, err
		}
		m.Question = append(m.Question, q)
	}

	if m.Answer, err = decodeRRSection(r, int(h.ANCount)); err != nil {
		return nil, err
	}
	if m.Authority, err = decodeRRSection(r, int(h.NSCount)); err != nil {
		return nil, err
	}
	if m.Additional, err = decodeRRSection(r, int(h.ARCount)); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeQuestion(r *wire.Reader) (Question, error) {
	name, err := wire.DecodeName(r)
	if err != nil {
		return Question{}, err
	}
	qtype, err := r.ReadUint16()
	if err != nil {
		return Question{}, err
	}
	qclass, err := r.ReadUint16()
	if err != nil {
		return Question{}, err
	}
	return Question{Name: name, Type: qtype, Class: qclass}, nil
}

func decodeRRSection(r *wire.Reader, count int) ([]RR, error) {
	out := make([]RR, 0, count)
	for i := 0; i < count; i++ {
		name, err := wire.DecodeName(r)
		if err != nil {
			return nil, err
		}
		rtype, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		class, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		ttl, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		rdlength, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		data, err := rr.Decode(r, rtype, int(rdlength))
		if err != nil {
			return nil, err
		}
		if opt, ok := data.(*rr.OPT); ok {
			opt.UDPSize = class
			opt.SetTTLFields(ttl)
		}
		out = append(out, RR{Name: name, Type: rtype, Class: class, TTL: ttl, Data: data})
	}
	return out, nil
}

// Encode serializes m to wire format, filling the header's section-count
// fields from the actual section lengths and back-patching each RR's
// RDLENGTH after its RDATA is written (spec §4.5).
func Encode(m *Message) ([]byte, error) {
	w := wire.NewWriter()

	h := m.Header
	h.QDCount = uint16(len(m.Question))
	h.ANCount = uint16(len(m.Answer))
	h.NSCount = uint16(len(m.Authority))
	h.ARCount = uint16(len(m.Additional))
	h.Encode(w)

	for _, q := range m.Question {
		if err := wire.EncodeName(w, q.Name, true); err != nil {
			return nil, err
		}
		w.WriteUint16(q.Type)
		w.WriteUint16(q.Class)
	}

	for _, section := range [][]RR{m.Answer, m.Authority, m.Additional} {
		for _, rec := range section {
			if err := encodeRR(w, rec); err != nil {
				return nil, err
			}
		}
	}
	return w.Bytes(), nil
}

func encodeRR(w *wire.Writer, rec RR) error {
	if err := wire.EncodeName(w, rec.Name, true); err != nil {
		return err
	}
	w.WriteUint16(rec.Type)

	class, ttl := rec.Class, rec.TTL
	if opt, ok := rec.Data.(*rr.OPT); ok {
		class, ttl = opt.UDPSize, opt.TTLFields()
	}
	w.WriteUint16(class)
	w.WriteUint32(ttl)

	rdlenOff := w.Len()
	w.WriteUint16(0) // placeholder, patched below
	rdataStart := w.Len()
	if rec.Data == nil {
		return codes.New(codes.PacketMalformed, "RR has no RDATA variant")
	}
	if err := rec.Data.SerializeRDATA(w); err != nil {
		return err
	}
	w.PatchUint16(rdlenOff, uint16(w.Len()-rdataStart))
	return nil
}
