package resolver

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// apply0x20 randomizes the case of each ASCII letter in name, per the
// draft-vixie-dnsext-dns0x20 technique: an off-path spoofer guessing
// the query name must also guess the exact case pattern, adding
// entropy beyond the 16-bit transaction ID.
func apply0x20(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
			if randomBool() {
				b.WriteRune(c - 32)
			} else {
				b.WriteRune(c)
			}
		case c >= 'A' && c <= 'Z':
			if randomBool() {
				b.WriteRune(c + 32)
			} else {
				b.WriteRune(c)
			}
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// validate0x20 reports whether a response's echoed question name
// preserves the exact case of the sent query name. A mismatch means
// the response did not actually answer the query this resolver sent.
func validate0x20(sentName, echoedName string) bool {
	return sentName == echoedName
}

func randomBool() bool {
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	if err != nil {
		return false
	}
	return n.Int64() == 1
}
