// Package wire implements the DNS binary wire format: the packet buffer
// cursor, name compression, and the 12-octet header (RFC 1035 §4);
// whole-packet assembly lives in package message. It has no notion of what an RR's RDATA means — that
// belongs to package rr — only of how bytes move on and off the wire.
package wire

import (
	"encoding/binary"

	"github.com/dnsscience/dnsgo/codes"
)

// Reader is a cursor over an existing byte slice with bounded read
// primitives; every read is checked against the buffer end and returns
// a codes.PacketMalformed error on underrun, per spec §4.2.
type Reader struct {
	Data []byte
	Off  int
}

// NewReader wraps a byte slice for sequential decoding.
func NewReader(data []byte) *Reader {
	return &Reader{Data: data}
}

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.Data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.Data) - r.Off }

func (r *Reader) need(n int) error {
	if r.Off < 0 || n < 0 || r.Off+n > len(r.Data) {
		return codes.New(codes.PacketMalformed, "buffer underrun")
	}
	return nil
}

// ReadUint8 reads one octet and advances the cursor.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.Data[r.Off]
	r.Off++
	return v, nil
}

// ReadUint16 reads a big-endian 16-bit value and advances the cursor.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.Data[r.Off:])
	r.Off += 2
	return v, nil
}

// ReadUint32 reads a big-endian 32-bit value and advances the cursor.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.Data[r.Off:])
	r.Off += 4
	return v, nil
}

// ReadUint48 reads a big-endian 48-bit value (used by TSIG's time-signed
// field) and advances the cursor.
func (r *Reader) ReadUint48() (uint64, error) {
	if err := r.need(6); err != nil {
		return 0, err
	}
	b := r.Data[r.Off : r.Off+6]
	v := uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 | uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
	r.Off += 6
	return v, nil
}

// ReadBytes returns a copy of the next n raw bytes and advances the cursor.
// A copy is returned (not a slice of the underlying buffer) so the caller
// can retain it after the buffer is pooled and reused.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.Data[r.Off:r.Off+n])
	r.Off += n
	return out, nil
}

// ReadCharString reads a character-string: a one-octet length prefix
// followed by that many octets (RFC 1035 §3.3, used by TXT et al.).
func (r *Reader) ReadCharString() (string, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Writer is an expandable write cursor. The compression table used by
// EncodeName lives alongside it, per spec §4.2 ("the compression table
// lives alongside the write cursor") and is per-encode, never shared
// between packets (spec §5).
type Writer struct {
	buf  []byte
	comp map[string]int // canonical (lowercased) name suffix -> byte offset already emitted
}

// NewWriter returns an empty write cursor.
func NewWriter() *Writer {
	return &Writer{comp: make(map[string]int)}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteUint8 appends one octet.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a big-endian 16-bit value.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// WriteUint32 appends a big-endian 32-bit value.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteUint48 appends a big-endian 48-bit value (TSIG time-signed).
func (w *Writer) WriteUint48(v uint64) {
	w.buf = append(w.buf,
		byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteCharString appends a length-prefixed character-string. A string
// longer than 255 octets is rejected with a PacketMalformed error; the rr
// package's text parsers do not split longer content into several
// character-strings.
func (w *Writer) WriteCharString(s string) error {
	if len(s) > 255 {
		return codes.New(codes.PacketMalformed, "character-string longer than 255 octets")
	}
	w.WriteUint8(uint8(len(s)))
	w.WriteBytes([]byte(s))
	return nil
}

// PatchUint16 overwrites the 16-bit big-endian value already written at
// byte offset off — used to back-patch RDLENGTH after an RR's RDATA has
// been serialized (spec §4.5).
func (w *Writer) PatchUint16(off int, v uint16) {
	w.buf[off] = byte(v >> 8)
	w.buf[off+1] = byte(v)
}
