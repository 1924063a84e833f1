package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// TSIG is the meta-RR wire shape carried in a transaction-signed message's
// additional section (RFC 8945 §4.2). Its owner name is the key name, its
// class is ANY, and its TTL is zero; those are handled at the message
// level. This type only models TSIG's RDATA; computing and checking the
// MAC itself is the job of package tsig, which reads and writes these
// fields but owns none of the cryptography here.
type TSIG struct {
	AlgorithmName string // e.g. "hmac-sha256.", see codes.HmacSHA256 et al.
	TimeSigned    uint64 // 48-bit seconds since epoch
	Fudge         uint16
	MAC           []byte
	OriginalID    uint16
	Error         uint16 // RCODE extension: BADSIG/BADKEY/BADTIME and friends
	OtherData     []byte
}

func (r *TSIG) Type() uint16 { return codes.TypeTSIG }

func (r *TSIG) ParseRDATA(rd *wire.Reader, rdlength int) error {
	end := rd.Off + rdlength
	alg, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	timeSigned, err := rd.ReadUint48()
	if err != nil {
		return err
	}
	fudge, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	macSize, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	mac, err := rd.ReadBytes(int(macSize))
	if err != nil {
		return err
	}
	origID, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	tsigErr, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	otherLen, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	other, err := rd.ReadBytes(int(otherLen))
	if err != nil {
		return err
	}
	if rd.Off != end {
		return codes.New(codes.PacketMalformed, "TSIG RDATA length mismatch")
	}
	r.AlgorithmName, r.TimeSigned, r.Fudge = alg, timeSigned, fudge
	r.MAC, r.OriginalID, r.Error, r.OtherData = mac, origID, tsigErr, other
	return nil
}

func (r *TSIG) SerializeRDATA(w *wire.Writer) error {
	// TSIG's algorithm name is never compressed (RFC 8945 §4.2).
	if err := wire.EncodeName(w, r.AlgorithmName, false); err != nil {
		return err
	}
	w.WriteUint48(r.TimeSigned)
	w.WriteUint16(r.Fudge)
	w.WriteUint16(uint16(len(r.MAC)))
	w.WriteBytes(r.MAC)
	w.WriteUint16(r.OriginalID)
	w.WriteUint16(r.Error)
	w.WriteUint16(uint16(len(r.OtherData)))
	w.WriteBytes(r.OtherData)
	return nil
}

func (r *TSIG) ParseText([]string) error {
	return codes.New(codes.PacketMalformed, "TSIG has no zone-file presentation form")
}

func (r *TSIG) FormatText() string {
	return r.AlgorithmName + " " + codes.RcodeToString(int(r.Error))
}
