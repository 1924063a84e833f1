// Package tsig implements RFC 8945 transaction signatures: signing an
// outgoing message with a shared secret and verifying one on an
// incoming response. It reads and writes the wire shape modeled by
// rr.TSIG but owns the actual HMAC computation, which that package
// deliberately does not.
package tsig

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"hash"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/rr"
	"github.com/dnsscience/dnsgo/wire"
)

// Key is the shared secret used to sign and verify one TSIG key name.
type Key struct {
	Name      string // key name, e.g. "mykey."
	Algorithm string // one of codes.HmacMD5/SHA1/SHA224/SHA256/SHA384/SHA512
	Secret    []byte
}

func hashFor(algorithm string) (func() hash.Hash, error) {
	switch algorithm {
	case codes.HmacMD5:
		return md5.New, nil
	case codes.HmacSHA1:
		return sha1.New, nil
	case codes.HmacSHA224:
		return sha256.New224, nil
	case codes.HmacSHA256:
		return sha256.New, nil
	case codes.HmacSHA384:
		return sha512.New384, nil
	case codes.HmacSHA512:
		return sha512.New, nil
	default:
		return nil, codes.Errorf(codes.Authentication, "unknown TSIG algorithm %q", algorithm)
	}
}

// Sign appends a TSIG record to msg's additional section, computing its
// MAC over msg (minus the TSIG RR) plus the TSIG variables, per
// RFC 8945 §4.2. timeSigned is the signer's notion of "now" in seconds
// since the epoch; callers pass it explicitly since this package does
// not call time.Now itself (keeps signing deterministic and testable).
func Sign(msg *message.Message, key Key, timeSigned uint64, fudge uint16) error {
	hashNew, err := hashFor(key.Algorithm)
	if err != nil {
		return err
	}

	requestMAC, err := computeMAC(hashNew, key.Secret, msg, key, timeSigned, fudge, nil)
	if err != nil {
		return err
	}

	msg.Additional = append(msg.Additional, message.RR{
		Name:  key.Name,
		Type:  codes.TypeTSIG,
		Class: codes.ClassANY,
		TTL:   0,
		Data: &rr.TSIG{
			AlgorithmName: key.Algorithm,
			TimeSigned:    timeSigned,
			Fudge:         fudge,
			MAC:           requestMAC,
			OriginalID:    msg.Header.ID,
			Error:         0,
		},
	})
	return nil
}

// Verify checks msg's trailing TSIG record (if any) against key: MAC,
// time window, original ID, and algorithm name all must match
// (RFC 8945 §5.2). requestMAC is the MAC of the query this response
// answers, required when verifying a response that is itself
// TSIG-signed over the request's MAC (RFC 8945 §4.3); pass nil when
// verifying a standalone signed message (e.g. an update).
func Verify(msg *message.Message, key Key, now uint64, requestMAC []byte) error {
	if len(msg.Additional) == 0 {
		return codes.New(codes.Authentication, "message carries no TSIG record")
	}
	last := msg.Additional[len(msg.Additional)-1]
	tsigRR, ok := last.Data.(*rr.TSIG)
	if !ok || last.Type != codes.TypeTSIG {
		return codes.New(codes.Authentication, "message carries no TSIG record")
	}

	if !wire.EqualNames(last.Name, key.Name) {
		return codes.New(codes.Authentication, "TSIG key name mismatch")
	}
	if tsigRR.AlgorithmName != key.Algorithm {
		return codes.New(codes.Authentication, "TSIG algorithm mismatch")
	}

	hashNew, err := hashFor(key.Algorithm)
	if err != nil {
		return err
	}

	// Strip the TSIG RR and decrement ARCOUNT before recomputing, per
	// RFC 8945 §5.2 ("Canonicalize the message").
	stripped := &message.Message{
		Header:     msg.Header,
		Question:   msg.Question,
		Answer:     msg.Answer,
		Authority:  msg.Authority,
		Additional: msg.Additional[:len(msg.Additional)-1],
	}
	stripped.Header.ID = tsigRR.OriginalID
	stripped.Header.ARCount = uint16(len(stripped.Additional))

	gotMAC, err := computeMAC(hashNew, key.Secret, stripped, key, tsigRR.TimeSigned, tsigRR.Fudge, requestMAC)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(gotMAC, tsigRR.MAC) != 1 {
		return codes.New(codes.Authentication, "TSIG MAC mismatch")
	}

	var delta uint64
	if now > tsigRR.TimeSigned {
		delta = now - tsigRR.TimeSigned
	} else {
		delta = tsigRR.TimeSigned - now
	}
	if delta > uint64(tsigRR.Fudge) {
		return codes.New(codes.Authentication, "TSIG time outside fudge window")
	}
	if tsigRR.Error != 0 {
		return codes.Errorf(codes.Authentication, "TSIG error %d in response", tsigRR.Error)
	}
	return nil
}

// computeMAC builds the to-be-signed input — an optional prior request
// MAC (RFC 8945 §4.3's chained-response case), the message itself, and
// the TSIG variables — and returns its HMAC under key.Secret.
func computeMAC(hashNew func() hash.Hash, secret []byte, msg *message.Message, key Key, timeSigned uint64, fudge uint16, requestMAC []byte) ([]byte, error) {
	msgBytes, err := message.Encode(msg)
	if err != nil {
		return nil, codes.Wrap(codes.PacketMalformed, "encode message for TSIG signing", err)
	}

	w := wire.NewWriter()
	if len(requestMAC) > 0 {
		w.WriteUint16(uint16(len(requestMAC)))
		w.WriteBytes(requestMAC)
	}
	w.WriteBytes(msgBytes)

	if err := wire.EncodeName(w, key.Name, false); err != nil {
		return nil, err
	}
	w.WriteUint16(codes.ClassANY)
	w.WriteUint32(0) // TTL
	if err := wire.EncodeName(w, key.Algorithm, false); err != nil {
		return nil, err
	}
	w.WriteUint48(timeSigned)
	w.WriteUint16(fudge)
	w.WriteUint16(0) // error
	w.WriteUint16(0) // other-len

	mac := hmac.New(hashNew, secret)
	mac.Write(w.Bytes())
	return mac.Sum(nil), nil
}
