package wire

import "github.com/dnsscience/dnsgo/codes"

// HeaderSize is the fixed 12-octet DNS header length (spec §4.3).
const HeaderSize = 12

// Header is the 12-octet fixed prefix of every DNS message.
type Header struct {
	ID      uint16
	QR      bool
	Opcode  uint8 // 4 bits
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       bool // reserved bit, must be zero on transmit
	AD      bool
	CD      bool
	Rcode   uint8 // 4 bits (the base RCODE; EDNS0 extends it, see rr.OPT)
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// flag bit positions within the 16-bit flag word, MSB first:
// QR(1) OPCODE(4) AA(1) TC(1) RD(1) RA(1) Z(1) AD(1) CD(1) RCODE(4)
const (
	flagQR = 1 << 15
	flagAA = 1 << 10
	flagTC = 1 << 9
	flagRD = 1 << 8
	flagRA = 1 << 7
	flagZ  = 1 << 6
	flagAD = 1 << 5
	flagCD = 1 << 4
)

// DecodeHeader reads the 12-octet header from r. Per spec §4.3, a buffer
// shorter than 12 octets is refused.
func DecodeHeader(r *Reader) (Header, error) {
	var h Header
	if r.Remaining() < HeaderSize {
		return h, codes.New(codes.PacketMalformed, "buffer shorter than DNS header")
	}

	id, _ := r.ReadUint16()
	flags, _ := r.ReadUint16()
	qd, _ := r.ReadUint16()
	an, _ := r.ReadUint16()
	ns, _ := r.ReadUint16()
	ar, _ := r.ReadUint16()

	h.ID = id
	h.QR = flags&flagQR != 0
	h.Opcode = uint8((flags >> 11) & 0x0F)
	h.AA = flags&flagAA != 0
	h.TC = flags&flagTC != 0
	h.RD = flags&flagRD != 0
	h.RA = flags&flagRA != 0
	h.Z = flags&flagZ != 0
	h.AD = flags&flagAD != 0
	h.CD = flags&flagCD != 0
	h.Rcode = uint8(flags & 0x0F)
	h.QDCount = qd
	h.ANCount = an
	h.NSCount = ns
	h.ARCount = ar
	return h, nil
}

// Encode writes the 12-octet header to w.
func (h Header) Encode(w *Writer) {
	w.WriteUint16(h.ID)

	var flags uint16
	if h.QR {
		flags |= flagQR
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		flags |= flagAA
	}
	if h.TC {
		flags |= flagTC
	}
	if h.RD {
		flags |= flagRD
	}
	if h.RA {
		flags |= flagRA
	}
	if h.Z {
		flags |= flagZ
	}
	if h.AD {
		flags |= flagAD
	}
	if h.CD {
		flags |= flagCD
	}
	flags |= uint16(h.Rcode & 0x0F)
	w.WriteUint16(flags)

	w.WriteUint16(h.QDCount)
	w.WriteUint16(h.ANCount)
	w.WriteUint16(h.NSCount)
	w.WriteUint16(h.ARCount)
}
