package rr

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"net"
	"strconv"
	"strings"

	"github.com/dnsscience/dnsgo/codes"
)

// base32HexNoPad is the unpadded "base32hex" alphabet RFC 5155 uses for
// NSEC3 hashed owner names.
var base32HexNoPad = base32.HexEncoding.WithPadding(base32.NoPadding)

func base32HexEncode(b []byte) string {
	return strings.ToUpper(base32HexNoPad.EncodeToString(b))
}

func base32HexDecode(s string) ([]byte, error) {
	b, err := base32HexNoPad.DecodeString(strings.ToUpper(s))
	if err != nil {
		return nil, codes.Wrap(codes.PacketMalformed, "invalid base32hex field", err)
	}
	return b, nil
}

// parseUint16Token parses a single decimal token as a uint16 field
// (preference, weight, port, key tag, ...).
func parseUint16Token(tok string) (uint16, error) {
	n, err := strconv.ParseUint(tok, 10, 16)
	if err != nil {
		return 0, codes.Wrap(codes.PacketMalformed, "expected 16-bit decimal field", err)
	}
	return uint16(n), nil
}

func parseUint8Token(tok string) (uint8, error) {
	n, err := strconv.ParseUint(tok, 10, 8)
	if err != nil {
		return 0, codes.Wrap(codes.PacketMalformed, "expected 8-bit decimal field", err)
	}
	return uint8(n), nil
}

func parseUint32Token(tok string) (uint32, error) {
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, codes.Wrap(codes.PacketMalformed, "expected 32-bit decimal field", err)
	}
	return uint32(n), nil
}

func needTokens(tokens []string, n int, what string) error {
	if len(tokens) < n {
		return codes.Errorf(codes.PacketMalformed, "%s: expected at least %d fields, got %d", what, n, len(tokens))
	}
	return nil
}

// b64decode is the shared base64 decoder for DNSKEY/RRSIG/TSIG signature
// and key material, which zone files and RFC examples may wrap across
// whitespace; callers join tokens with no separator before calling this.
func b64decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, codes.Wrap(codes.PacketMalformed, "invalid base64 field", err)
	}
	return b, nil
}

func b64encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func hexDecode(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, codes.Wrap(codes.PacketMalformed, "invalid hex field", err)
	}
	return b, nil
}

func hexEncode(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// itoaLen formats a decimal integer field for FormatText output.
func itoaLen(v int) string {
	return strconv.Itoa(v)
}

// typeFromToken resolves a presentation-form type name (e.g. "A", "MX",
// or the RFC 3597 "TYPE65280" fallback form) to its numeric code.
func typeFromToken(tok string) (uint16, bool) {
	if t, ok := codes.StringToType(tok); ok {
		return t, true
	}
	if strings.HasPrefix(tok, "TYPE") {
		n, err := strconv.ParseUint(tok[4:], 10, 16)
		if err == nil {
			return uint16(n), true
		}
	}
	return 0, false
}

// joinTokens concatenates tokens with no separator, for fields (base64
// signatures and keys) that zone files may wrap across whitespace.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, "")
}

func parseIPv4(tok string) (net.IP, error) {
	ip := net.ParseIP(tok).To4()
	if ip == nil {
		return nil, codes.Errorf(codes.PacketMalformed, "invalid IPv4 address %q", tok)
	}
	return ip, nil
}

func parseIPv6(tok string) (net.IP, error) {
	ip := net.ParseIP(tok).To16()
	if ip == nil {
		return nil, codes.Errorf(codes.PacketMalformed, "invalid IPv6 address %q", tok)
	}
	return ip, nil
}

// quoteTXT renders a character-string the way zone files do: double-quoted,
// with embedded quotes and backslashes escaped.
func quoteTXT(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// unquoteTXT reverses quoteTXT, accepting input with or without the
// surrounding quotes.
func unquoteTXT(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
