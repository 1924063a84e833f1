package dnssec

import "github.com/dnsscience/dnsgo/rr"

// KeyTag computes a DNSKEY's 16-bit fingerprint per RFC 4034 Appendix B,
// used to select among multiple keys for the same name/algorithm.
func KeyTag(key *rr.DNSKEY) uint16 {
	w := encodeDNSKEYRDATA(key.Flags, key.Protocol, key.Algorithm, key.PublicKey)
	return keyTagOverBytes(key.Algorithm, w)
}

// CDNSKEYKeyTag computes the same fingerprint for a CDNSKEY record.
func CDNSKEYKeyTag(key *rr.CDNSKEY) uint16 {
	w := encodeDNSKEYRDATA(key.Flags, key.Protocol, key.Algorithm, key.PublicKey)
	return keyTagOverBytes(key.Algorithm, w)
}

func encodeDNSKEYRDATA(flags uint16, protocol, algorithm uint8, publicKey []byte) []byte {
	buf := make([]byte, 4+len(publicKey))
	buf[0] = byte(flags >> 8)
	buf[1] = byte(flags)
	buf[2] = protocol
	buf[3] = algorithm
	copy(buf[4:], publicKey)
	return buf
}

// keyTagOverBytes is RFC 4034 Appendix B's reference algorithm, applied
// to the DNSKEY RDATA's wire bytes (flags, protocol, algorithm, public key).
func keyTagOverBytes(algorithm uint8, rdata []byte) uint16 {
	if algorithm == 1 { // RSA/MD5's key tag is its own last two octets, not the general checksum
		if len(rdata) < 3 {
			return 0
		}
		return uint16(rdata[len(rdata)-3])<<8 | uint16(rdata[len(rdata)-2])
	}

	var ac uint32
	for i, b := range rdata {
		if i&1 == 0 {
			ac += uint32(b) << 8
		} else {
			ac += uint32(b)
		}
	}
	ac += (ac >> 16) & 0xFFFF
	return uint16(ac & 0xFFFF)
}
