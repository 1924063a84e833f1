package rr

import (
	"net"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/wire"
)

// A is an IPv4 host address record (RFC 1035 §3.4.1).
type A struct {
	Address net.IP
}

func (r *A) Type() uint16 { return codes.TypeA }

func (r *A) ParseRDATA(rd *wire.Reader, rdlength int) error {
	if rdlength != 4 {
		return codes.Errorf(codes.PacketMalformed, "A RDATA length %d, want 4", rdlength)
	}
	b, err := rd.ReadBytes(4)
	if err != nil {
		return err
	}
	r.Address = net.IP(b)
	return nil
}

func (r *A) SerializeRDATA(w *wire.Writer) error {
	ip := r.Address.To4()
	if ip == nil {
		return codes.New(codes.PacketMalformed, "A record address is not IPv4")
	}
	w.WriteBytes(ip)
	return nil
}

func (r *A) ParseText(tokens []string) error {
	if err := needTokens(tokens, 1, "A"); err != nil {
		return err
	}
	ip, err := parseIPv4(tokens[0])
	if err != nil {
		return err
	}
	r.Address = ip
	return nil
}

func (r *A) FormatText() string { return r.Address.String() }

// AAAA is an IPv6 host address record (RFC 3596).
type AAAA struct {
	Address net.IP
}

func (r *AAAA) Type() uint16 { return codes.TypeAAAA }

func (r *AAAA) ParseRDATA(rd *wire.Reader, rdlength int) error {
	if rdlength != 16 {
		return codes.Errorf(codes.PacketMalformed, "AAAA RDATA length %d, want 16", rdlength)
	}
	b, err := rd.ReadBytes(16)
	if err != nil {
		return err
	}
	r.Address = net.IP(b)
	return nil
}

func (r *AAAA) SerializeRDATA(w *wire.Writer) error {
	ip := r.Address.To16()
	if ip == nil {
		return codes.New(codes.PacketMalformed, "AAAA record address is not valid")
	}
	w.WriteBytes(ip)
	return nil
}

func (r *AAAA) ParseText(tokens []string) error {
	if err := needTokens(tokens, 1, "AAAA"); err != nil {
		return err
	}
	ip, err := parseIPv6(tokens[0])
	if err != nil {
		return err
	}
	r.Address = ip
	return nil
}

func (r *AAAA) FormatText() string { return r.Address.String() }

// domainNameRecord is the shared shape of NS/CNAME/PTR: RDATA is a single
// (possibly compressed) domain name.
type domainNameRecord struct {
	Name string
}

func (r *domainNameRecord) parseRDATA(rd *wire.Reader) error {
	name, err := wire.DecodeName(rd)
	if err != nil {
		return err
	}
	r.Name = name
	return nil
}

func (r *domainNameRecord) serializeRDATA(w *wire.Writer) error {
	return wire.EncodeName(w, r.Name, true)
}

// NS delegates a zone to a name server (RFC 1035 §3.3.11).
type NS struct{ domainNameRecord }

func (r *NS) Type() uint16                                      { return codes.TypeNS }
func (r *NS) ParseRDATA(rd *wire.Reader, rdlength int) error     { return r.parseRDATA(rd) }
func (r *NS) SerializeRDATA(w *wire.Writer) error                { return r.serializeRDATA(w) }
func (r *NS) ParseText(tokens []string) error {
	if err := needTokens(tokens, 1, "NS"); err != nil {
		return err
	}
	r.Name = tokens[0]
	return nil
}
func (r *NS) FormatText() string { return r.Name }

// CNAME aliases one name to another (RFC 1035 §3.3.1).
type CNAME struct{ domainNameRecord }

func (r *CNAME) Type() uint16                                  { return codes.TypeCNAME }
func (r *CNAME) ParseRDATA(rd *wire.Reader, rdlength int) error { return r.parseRDATA(rd) }
func (r *CNAME) SerializeRDATA(w *wire.Writer) error            { return r.serializeRDATA(w) }
func (r *CNAME) ParseText(tokens []string) error {
	if err := needTokens(tokens, 1, "CNAME"); err != nil {
		return err
	}
	r.Name = tokens[0]
	return nil
}
func (r *CNAME) FormatText() string { return r.Name }

// PTR is a domain-name pointer, used for reverse (in-addr.arpa/ip6.arpa)
// lookups (RFC 1035 §3.3.12).
type PTR struct{ domainNameRecord }

func (r *PTR) Type() uint16                                  { return codes.TypePTR }
func (r *PTR) ParseRDATA(rd *wire.Reader, rdlength int) error { return r.parseRDATA(rd) }
func (r *PTR) SerializeRDATA(w *wire.Writer) error            { return r.serializeRDATA(w) }
func (r *PTR) ParseText(tokens []string) error {
	if err := needTokens(tokens, 1, "PTR"); err != nil {
		return err
	}
	r.Name = tokens[0]
	return nil
}
func (r *PTR) FormatText() string { return r.Name }
