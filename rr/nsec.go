package rr

import (
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// NSEC proves the nonexistence of a name or type by naming the next
// owner in canonical zone order and the set of types present at this
// owner (RFC 4034 §4). The next-name field is never compressed.
type NSEC struct {
	NextDomain string
	TypeBitmap []uint16 // decoded type-covered list, in ascending order
}

func (r *NSEC) Type() uint16 { return codes.TypeNSEC }

func (r *NSEC) ParseRDATA(rd *wire.Reader, rdlength int) error {
	end := rd.Off + rdlength
	next, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	types, err := decodeTypeBitmap(rd, end)
	if err != nil {
		return err
	}
	r.NextDomain, r.TypeBitmap = next, types
	return nil
}

func (r *NSEC) SerializeRDATA(w *wire.Writer) error {
	if err := wire.EncodeName(w, r.NextDomain, false); err != nil {
		return err
	}
	return encodeTypeBitmap(w, r.TypeBitmap)
}

func (r *NSEC) ParseText(tokens []string) error {
	if err := needTokens(tokens, 1, "NSEC"); err != nil {
		return err
	}
	r.NextDomain = tokens[0]
	types := make([]uint16, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		t, ok := typeFromToken(tok)
		if !ok {
			return codes.Errorf(codes.PacketMalformed, "NSEC: unknown type %q", tok)
		}
		types = append(types, t)
	}
	r.TypeBitmap = types
	return nil
}

func (r *NSEC) FormatText() string {
	parts := []string{r.NextDomain}
	for _, t := range r.TypeBitmap {
		parts = append(parts, codes.TypeToString(t))
	}
	return strings.Join(parts, " ")
}

// decodeTypeBitmap decodes the RFC 4034 §4.1.2 windowed type-bitmap
// format shared by NSEC and NSEC3.
func decodeTypeBitmap(rd *wire.Reader, end int) ([]uint16, error) {
	var types []uint16
	for rd.Off < end {
		window, err := rd.ReadUint8()
		if err != nil {
			return nil, err
		}
		length, err := rd.ReadUint8()
		if err != nil {
			return nil, err
		}
		if length == 0 || length > 32 {
			return nil, codes.New(codes.PacketMalformed, "NSEC/NSEC3 bitmap window length out of range")
		}
		bitmap, err := rd.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		for i, b := range bitmap {
			for bit := 0; bit < 8; bit++ {
				if b&(0x80>>uint(bit)) != 0 {
					types = append(types, uint16(window)*256+uint16(i*8+bit))
				}
			}
		}
	}
	if rd.Off != end {
		return nil, codes.New(codes.PacketMalformed, "NSEC/NSEC3 bitmap overran RDATA")
	}
	return types, nil
}

// encodeTypeBitmap is the inverse of decodeTypeBitmap. types need not be
// pre-sorted; the windows are emitted in ascending order regardless.
func encodeTypeBitmap(w *wire.Writer, types []uint16) error {
	byWindow := map[uint8][]uint16{}
	for _, t := range types {
		window := uint8(t / 256)
		byWindow[window] = append(byWindow[window], t)
	}
	for window := 0; window < 256; window++ {
		bits, ok := byWindow[uint8(window)]
		if !ok {
			continue
		}
		maxBit := 0
		for _, t := range bits {
			if lo := int(t % 256); lo > maxBit {
				maxBit = lo
			}
		}
		length := maxBit/8 + 1
		bitmap := make([]byte, length)
		for _, t := range bits {
			lo := int(t % 256)
			bitmap[lo/8] |= 0x80 >> uint(lo%8)
		}
		w.WriteUint8(uint8(window))
		w.WriteUint8(uint8(length))
		w.WriteBytes(bitmap)
	}
	return nil
}
