package rr

import (
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// NSEC3 proves nonexistence using hashed owner names to resist
// zone-walking (RFC 5155 §3).
type NSEC3 struct {
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
	NextHashed    []byte
	TypeBitmap    []uint16
}

func (r *NSEC3) Type() uint16 { return codes.TypeNSEC3 }

func (r *NSEC3) ParseRDATA(rd *wire.Reader, rdlength int) error {
	end := rd.Off + rdlength
	alg, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	flags, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	iterations, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	saltLen, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	salt, err := rd.ReadBytes(int(saltLen))
	if err != nil {
		return err
	}
	hashLen, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	hash, err := rd.ReadBytes(int(hashLen))
	if err != nil {
		return err
	}
	types, err := decodeTypeBitmap(rd, end)
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations = alg, flags, iterations
	r.Salt, r.NextHashed, r.TypeBitmap = salt, hash, types
	return nil
}

func (r *NSEC3) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint8(r.HashAlgorithm)
	w.WriteUint8(r.Flags)
	w.WriteUint16(r.Iterations)
	w.WriteUint8(uint8(len(r.Salt)))
	w.WriteBytes(r.Salt)
	w.WriteUint8(uint8(len(r.NextHashed)))
	w.WriteBytes(r.NextHashed)
	return encodeTypeBitmap(w, r.TypeBitmap)
}

func (r *NSEC3) ParseText(tokens []string) error {
	if err := needTokens(tokens, 5, "NSEC3"); err != nil {
		return err
	}
	alg, err := parseUint8Token(tokens[0])
	if err != nil {
		return err
	}
	flags, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	iterations, err := parseUint16Token(tokens[2])
	if err != nil {
		return err
	}
	var salt []byte
	if tokens[3] != "-" {
		salt, err = hexDecode(tokens[3])
		if err != nil {
			return err
		}
	}
	hash, err := base32HexDecode(tokens[4])
	if err != nil {
		return err
	}
	types := make([]uint16, 0, len(tokens)-5)
	for _, tok := range tokens[5:] {
		t, ok := typeFromToken(tok)
		if !ok {
			return codes.Errorf(codes.PacketMalformed, "NSEC3: unknown type %q", tok)
		}
		types = append(types, t)
	}
	r.HashAlgorithm, r.Flags, r.Iterations = alg, flags, iterations
	r.Salt, r.NextHashed, r.TypeBitmap = salt, hash, types
	return nil
}

func (r *NSEC3) FormatText() string {
	salt := "-"
	if len(r.Salt) > 0 {
		salt = hexEncode(r.Salt)
	}
	parts := []string{
		itoaLen(int(r.HashAlgorithm)), itoaLen(int(r.Flags)), itoaLen(int(r.Iterations)),
		salt, base32HexEncode(r.NextHashed),
	}
	for _, t := range r.TypeBitmap {
		parts = append(parts, codes.TypeToString(t))
	}
	return strings.Join(parts, " ")
}

// NSEC3PARAM advertises the hash parameters a zone uses for its NSEC3
// chain (RFC 5155 §4), without a next-hashed-owner field.
type NSEC3PARAM struct {
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
}

func (r *NSEC3PARAM) Type() uint16 { return codes.TypeNSEC3PARAM }

func (r *NSEC3PARAM) ParseRDATA(rd *wire.Reader, rdlength int) error {
	alg, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	flags, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	iterations, err := rd.ReadUint16()
	if err != nil {
		return err
	}
	saltLen, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	salt, err := rd.ReadBytes(int(saltLen))
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations, r.Salt = alg, flags, iterations, salt
	return nil
}

func (r *NSEC3PARAM) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint8(r.HashAlgorithm)
	w.WriteUint8(r.Flags)
	w.WriteUint16(r.Iterations)
	w.WriteUint8(uint8(len(r.Salt)))
	w.WriteBytes(r.Salt)
	return nil
}

func (r *NSEC3PARAM) ParseText(tokens []string) error {
	if err := needTokens(tokens, 4, "NSEC3PARAM"); err != nil {
		return err
	}
	alg, err := parseUint8Token(tokens[0])
	if err != nil {
		return err
	}
	flags, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	iterations, err := parseUint16Token(tokens[2])
	if err != nil {
		return err
	}
	var salt []byte
	if tokens[3] != "-" {
		salt, err = hexDecode(tokens[3])
		if err != nil {
			return err
		}
	}
	r.HashAlgorithm, r.Flags, r.Iterations, r.Salt = alg, flags, iterations, salt
	return nil
}

func (r *NSEC3PARAM) FormatText() string {
	salt := "-"
	if len(r.Salt) > 0 {
		salt = hexEncode(r.Salt)
	}
	return itoaLen(int(r.HashAlgorithm)) + " " + itoaLen(int(r.Flags)) + " " +
		itoaLen(int(r.Iterations)) + " " + salt
}
