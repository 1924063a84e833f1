package rr

import (
	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// SSHFP publishes an SSH public key fingerprint (RFC 4255).
type SSHFP struct {
	Algorithm   uint8
	FPType      uint8
	Fingerprint []byte
}

func (r *SSHFP) Type() uint16 { return codes.TypeSSHFP }

func (r *SSHFP) ParseRDATA(rd *wire.Reader, rdlength int) error {
	if rdlength < 2 {
		return codes.New(codes.PacketMalformed, "SSHFP RDATA shorter than its fixed fields")
	}
	alg, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	fptype, err := rd.ReadUint8()
	if err != nil {
		return err
	}
	fp, err := rd.ReadBytes(rdlength - 2)
	if err != nil {
		return err
	}
	r.Algorithm, r.FPType, r.Fingerprint = alg, fptype, fp
	return nil
}

func (r *SSHFP) SerializeRDATA(w *wire.Writer) error {
	w.WriteUint8(r.Algorithm)
	w.WriteUint8(r.FPType)
	w.WriteBytes(r.Fingerprint)
	return nil
}

func (r *SSHFP) ParseText(tokens []string) error {
	if err := needTokens(tokens, 3, "SSHFP"); err != nil {
		return err
	}
	alg, err := parseUint8Token(tokens[0])
	if err != nil {
		return err
	}
	fptype, err := parseUint8Token(tokens[1])
	if err != nil {
		return err
	}
	fp, err := hexDecode(tokens[2])
	if err != nil {
		return err
	}
	r.Algorithm, r.FPType, r.Fingerprint = alg, fptype, fp
	return nil
}

func (r *SSHFP) FormatText() string {
	return itoaLen(int(r.Algorithm)) + " " + itoaLen(int(r.FPType)) + " " + hexEncode(r.Fingerprint)
}
