package wire

import (
	"strings"

	"github.com/dnsscience/dnsgo/codes"
)

const (
	maxLabelLength  = 63
	maxNameLength   = 255
	maxPointerDepth = 255 // spec §4.1: cap pointer-follow depth to prevent loops
)

// pointerTag identifies the top two bits of a length byte that mark it as
// a compression pointer rather than a label-length octet (RFC 1035 §4.1.4).
const pointerTag = 0xC0

// DecodeName reads a domain name starting at r.Off, following RFC 1035
// §4.1.4 compression pointers as needed, and returns the absolute
// presentation name (dot-separated, trailing dot). It leaves r.Off
// immediately after the name as it appears at the original cursor
// position (i.e. after a pointer, not after the jump target).
//
// Safeguards, per spec §4.1: pointers must point strictly backward (never
// forward, never to themselves), the total pointer-follow depth is capped,
// and the accumulated name length is capped at 255 octets.
func DecodeName(r *Reader) (string, error) {
	startOff := r.Off
	var labels []string
	cursorFixed := false
	depth := 0
	pos := r.Off

	for {
		if pos >= len(r.Data) {
			return "", codes.New(codes.PacketMalformed, "name runs past end of buffer")
		}

		length := int(r.Data[pos])

		if length&pointerTag == pointerTag {
			if pos+1 >= len(r.Data) {
				return "", codes.New(codes.PacketMalformed, "truncated compression pointer")
			}
			ptr := (length&^pointerTag)<<8 | int(r.Data[pos+1])

			if ptr >= startOff {
				return "", codes.New(codes.PacketMalformed, "compression pointer does not point backward")
			}
			depth++
			if depth > maxPointerDepth {
				return "", codes.New(codes.PacketMalformed, "compression pointer chain too deep")
			}

			if !cursorFixed {
				r.Off = pos + 2
				cursorFixed = true
			}
			pos = ptr
			// startOff only bounds the *first* jump's target; once we've
			// jumped, any further pointer must point before the offset we
			// jumped to, which `pos` now holds via the loop re-running
			// this same check against the new `pos`... but we still want
			// strictly-decreasing offsets to guarantee termination.
			startOff = ptr
			continue
		}

		if length == 0 {
			if !cursorFixed {
				r.Off = pos + 1
			}
			break
		}

		if length > maxLabelLength {
			return "", codes.New(codes.PacketMalformed, "label exceeds 63 octets")
		}
		pos++
		if pos+length > len(r.Data) {
			return "", codes.New(codes.PacketMalformed, "label runs past end of buffer")
		}
		labels = append(labels, string(r.Data[pos:pos+length]))
		pos += length

		if nameWireLen(labels) > maxNameLength {
			return "", codes.New(codes.PacketMalformed, "name exceeds 255 octets")
		}
	}

	if len(labels) == 0 {
		return ".", nil
	}
	return strings.Join(labels, ".") + ".", nil
}

// nameWireLen computes the wire-format length (length-prefixed labels plus
// the root terminator) that the accumulated labels would occupy.
func nameWireLen(labels []string) int {
	n := 1 // root terminator
	for _, l := range labels {
		n += 1 + len(l)
	}
	return n
}

// EncodeName writes name (absolute presentation form) to w. When compress
// is true, successive suffixes are recorded in w's compression table and
// reused as 2-octet back-pointers (spec §4.1); when compress is false the
// name is written in full ("canonical" form — required when signing, per
// spec §4.4's RRSIG note that signer names serialize uncompressed).
//
// Compression is also skipped for the root name and is never applied
// retroactively to a name already written without it.
func EncodeName(w *Writer, name string, compress bool) error {
	labels, err := splitName(name)
	if err != nil {
		return err
	}

	for i := range labels {
		suffix := strings.ToLower(strings.Join(labels[i:], "."))
		if suffix != "" {
			suffix += "."
		} else {
			suffix = "."
		}

		if compress {
			if off, ok := w.comp[suffix]; ok {
				w.WriteUint8(byte(pointerTag | (off >> 8)))
				w.WriteUint8(byte(off))
				return nil
			}
			if w.Len() <= 0x3FFF {
				w.comp[suffix] = w.Len()
			}
		}

		label := labels[i]
		w.WriteUint8(uint8(len(label)))
		w.WriteBytes([]byte(label))
	}

	w.WriteUint8(0) // root terminator; no pointer closed the name
	return nil
}

// splitName splits an absolute presentation name into its labels,
// validating per-label and total wire-length bounds. The root name "."
// yields zero labels.
func splitName(name string) ([]string, error) {
	if name == "." || name == "" {
		return nil, nil
	}
	trimmed := strings.TrimSuffix(name, ".")
	labels := strings.Split(trimmed, ".")

	wireLen := 1
	for _, l := range labels {
		if len(l) == 0 {
			return nil, codes.New(codes.PacketMalformed, "empty label in name")
		}
		if len(l) > maxLabelLength {
			return nil, codes.New(codes.PacketMalformed, "label exceeds 63 octets")
		}
		wireLen += 1 + len(l)
	}
	if wireLen > maxNameLength {
		return nil, codes.New(codes.PacketMalformed, "name exceeds 255 octets")
	}
	return labels, nil
}

// EqualNames compares two presentation names case-insensitively on ASCII,
// per spec §3's name comparison rule.
func EqualNames(a, b string) bool {
	return strings.EqualFold(canonFQDN(a), canonFQDN(b))
}

func canonFQDN(name string) string {
	if name == "" {
		return "."
	}
	if !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}

// CanonicalNameBytes returns the lowercased, uncompressed wire encoding of
// name, as required when building the signed-data input for RRSIG/SIG(0)
// and TSIG (spec §4.8: "owner name lowercased and uncompressed").
func CanonicalNameBytes(name string) ([]byte, error) {
	w := NewWriter()
	if err := EncodeName(w, strings.ToLower(name), false); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
