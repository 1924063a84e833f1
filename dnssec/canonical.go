// Package dnssec implements SIG(0) and DNSSEC RRSIG signing and
// verification (RFC 2931, RFC 4034/4035) plus the RRset canonicalization
// both depend on: lowercased, uncompressed owner names, canonical RDATA
// ordering, and original-TTL substitution. DNSKEY key-tag computation
// (RFC 4034 Appendix B) also lives here. Chain-of-trust validation from
// a root anchor is out of scope (spec §1): verification checks one
// signature against one supplied key.
package dnssec

import (
	"bytes"
	"sort"
	"strings"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/rr"
	"github.com/dnsscience/dnsgo/wire"
)

// RRset models all RRs sharing one (owner name, type, class) triple
// (the GLOSSARY's definition, made explicit per SPEC_FULL.md §3).
type RRset struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   uint32
	Data  []rr.Record
}

// canonicalRDATA serializes one RDATA variant uncompressed, for use as
// the sort key and signing input (RFC 4034 §6.2/§6.3).
func canonicalRDATA(rec rr.Record) ([]byte, error) {
	w := wire.NewWriter()
	if err := rec.SerializeRDATA(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Canonicalize returns the RRset's members serialized in canonical
// form and order (RFC 4034 §6.3): owner name lowercased and
// uncompressed, RDATA in canonical wire form (names within RDATA are
// NOT additionally lowercased here — each RR type's SerializeRDATA
// already writes whatever case its fields hold; canonicalizing RDATA
// name case is the caller's responsibility when constructing the
// RRset), TTL replaced by originalTTL, members sorted ascending by
// their canonical RDATA bytes.
func Canonicalize(set RRset, originalTTL uint32) ([]byte, error) {
	ownerBytes, err := wire.CanonicalNameBytes(set.Name)
	if err != nil {
		return nil, err
	}

	rdataList := make([][]byte, 0, len(set.Data))
	for _, rec := range set.Data {
		rd, err := canonicalRDATA(rec)
		if err != nil {
			return nil, err
		}
		rdataList = append(rdataList, rd)
	}
	sort.Slice(rdataList, func(i, j int) bool {
		return bytes.Compare(rdataList[i], rdataList[j]) < 0
	})

	var out bytes.Buffer
	for _, rd := range rdataList {
		out.Write(ownerBytes)
		writeUint16(&out, set.Type)
		writeUint16(&out, set.Class)
		writeUint32(&out, originalTTL)
		writeUint16(&out, uint16(len(rd)))
		out.Write(rd)
	}
	return out.Bytes(), nil
}

func writeUint16(b *bytes.Buffer, v uint16) {
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

func writeUint32(b *bytes.Buffer, v uint32) {
	b.WriteByte(byte(v >> 24))
	b.WriteByte(byte(v >> 16))
	b.WriteByte(byte(v >> 8))
	b.WriteByte(byte(v))
}

// signedData builds the full input to sign/verify for an RRSIG over
// set: the RRSIG RDATA up to (but not including) the signature field,
// in uncompressed wire form, followed by the canonicalized RRset
// (RFC 4034 §3.1.8.1).
func signedData(sig *rr.RRSIG, set RRset) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteUint16(sig.TypeCovered)
	w.WriteUint8(sig.Algorithm)
	w.WriteUint8(sig.Labels)
	w.WriteUint32(sig.OriginalTTL)
	w.WriteUint32(sig.Expiration)
	w.WriteUint32(sig.Inception)
	w.WriteUint16(sig.KeyTag)
	if err := wire.EncodeName(w, strings.ToLower(sig.SignerName), false); err != nil {
		return nil, err
	}

	rrsetBytes, err := Canonicalize(set, sig.OriginalTTL)
	if err != nil {
		return nil, err
	}

	out := append([]byte(nil), w.Bytes()...)
	out = append(out, rrsetBytes...)
	return out, nil
}

var errTypeCoveredMismatch = codes.New(codes.ResponseInvalid, "RRSIG type-covered does not match RRset")

func checkTypeCovered(sig *rr.RRSIG, set RRset) error {
	if sig.TypeCovered != set.Type {
		return errTypeCoveredMismatch
	}
	return nil
}

// messageSignedData builds SIG(0)'s to-be-signed input: the RRSIG
// RDATA (minus signature) followed by the full message it covers
// (RFC 2931 §3).
func messageSignedData(sig *rr.RRSIG, msg *message.Message) ([]byte, error) {
	w := wire.NewWriter()
	w.WriteUint16(sig.TypeCovered)
	w.WriteUint8(sig.Algorithm)
	w.WriteUint8(sig.Labels)
	w.WriteUint32(sig.OriginalTTL)
	w.WriteUint32(sig.Expiration)
	w.WriteUint32(sig.Inception)
	w.WriteUint16(sig.KeyTag)
	if err := wire.EncodeName(w, strings.ToLower(sig.SignerName), false); err != nil {
		return nil, err
	}

	msgBytes, err := message.Encode(msg)
	if err != nil {
		return nil, codes.Wrap(codes.PacketMalformed, "encode message for SIG(0) signing", err)
	}

	out := append([]byte(nil), w.Bytes()...)
	out = append(out, msgBytes...)
	return out, nil
}
