package resolver

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/wire"
)

// validateResponse checks a candidate response against the request
// that produced it (spec §4.7 step 5): ID match, QR bit set, and the
// first question echoed back (name comparison case-insensitive, or
// exact if use0x20 is set since the resolver deliberately varied case
// to detect spoofing). A failing check here means "drop and keep
// waiting", not "fail the attempt" — the caller loops until its
// per-attempt timeout expires.
func validateResponse(sentID uint16, sentQuestion message.Question, use0x20 bool, resp *message.Message) error {
	if resp.Header.ID != sentID {
		return codes.New(codes.ResponseInvalid, "response ID does not match query")
	}
	if !resp.Header.QR {
		return codes.New(codes.ResponseInvalid, "response QR bit not set")
	}
	if len(resp.Question) == 0 {
		return codes.New(codes.ResponseInvalid, "response has no question section")
	}

	got := resp.Question[0]
	if got.Type != sentQuestion.Type || got.Class != sentQuestion.Class {
		return codes.New(codes.ResponseInvalid, "response question type/class mismatch")
	}

	if use0x20 {
		if !validate0x20(sentQuestion.Name, got.Name) {
			return codes.New(codes.ResponseInvalid, "0x20 case validation failed: possible spoofing")
		}
	} else if !wire.EqualNames(sentQuestion.Name, got.Name) {
		return codes.New(codes.ResponseInvalid, "response question name mismatch")
	}

	return nil
}
