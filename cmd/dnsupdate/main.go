// Command dnsupdate is a minimal nsupdate-like CLI exercising package
// resolver's dynamic update path (RFC 2136) against a configured
// nameserver, optionally TSIG-signed.
//
// Usage:
//
//	dnsupdate -server ns1.example.com:53 -zone example.com. \
//	    -add "host.example.com. 300 A 192.0.2.1" \
//	    -delete "old.example.com. A"
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/resolver"
	"github.com/dnsscience/dnsgo/rr"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	server        = flag.String("server", "127.0.0.1:53", "nameserver address (host:port)")
	zone          = flag.String("zone", "", "zone name the update applies to (required)")
	timeout       = flag.Duration("timeout", 5*time.Second, "per-attempt timeout")
	tsigName      = flag.String("tsig-name", "", "TSIG key name (enables signing when non-empty)")
	tsigAlgorithm = flag.String("tsig-algorithm", codes.HmacSHA256, "TSIG algorithm")
	tsigSecret    = flag.String("tsig-secret", "", "TSIG secret, base64")

	adds    stringList
	deletes stringList
)

func main() {
	flag.Var(&adds, "add", `record to add: "name ttl class type rdata..." (class defaults to IN)`)
	flag.Var(&deletes, "delete", `RRset to delete: "name type" (deletes the whole RRset)`)
	flag.Parse()

	if *zone == "" {
		fmt.Fprintln(os.Stderr, "dnsupdate: -zone is required")
		os.Exit(2)
	}
	if len(adds) == 0 && len(deletes) == 0 {
		fmt.Fprintln(os.Stderr, "dnsupdate: at least one -add or -delete is required")
		os.Exit(2)
	}

	var updates []message.RR
	for _, spec := range adds {
		record, err := parseAdd(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dnsupdate: %v\n", err)
			os.Exit(2)
		}
		updates = append(updates, record)
	}
	for _, spec := range deletes {
		record, err := parseDelete(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dnsupdate: %v\n", err)
			os.Exit(2)
		}
		updates = append(updates, record)
	}

	cfg := resolver.DefaultConfig()
	cfg.Nameservers = []string{*server}
	cfg.Timeout = *timeout

	if *tsigName != "" {
		secret, err := base64.StdEncoding.DecodeString(*tsigSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dnsupdate: decode TSIG secret: %v\n", err)
			os.Exit(1)
		}
		cfg.TSIGKeyName = *tsigName
		cfg.TSIGAlgorithm = *tsigAlgorithm
		cfg.TSIGSecret = secret
	}

	res, err := resolver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsupdate: %v\n", err)
		os.Exit(1)
	}
	defer res.Close()

	resp, err := res.Update(context.Background(), *zone, updates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsupdate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf(";; status: %s\n", codes.RcodeToString(int(resp.Header.Rcode)))
}

// parseAdd parses "name ttl class type rdata...". class is optional and
// defaults to IN when the third field isn't a recognized class name.
func parseAdd(spec string) (message.RR, error) {
	fields := strings.Fields(spec)
	if len(fields) < 3 {
		return message.RR{}, fmt.Errorf("add record %q: expected at least \"name ttl type rdata\"", spec)
	}

	name := fields[0]
	ttl, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return message.RR{}, fmt.Errorf("add record %q: bad ttl: %w", spec, err)
	}

	rest := fields[2:]
	class := uint16(codes.ClassIN)
	if c, ok := codes.StringToClass(rest[0]); ok {
		class = c
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return message.RR{}, fmt.Errorf("add record %q: missing type", spec)
	}

	rtype, ok := codes.StringToType(strings.ToUpper(rest[0]))
	if !ok {
		return message.RR{}, fmt.Errorf("add record %q: unknown type %q", spec, rest[0])
	}

	record := rr.New(rtype)
	if err := record.ParseText(rest[1:]); err != nil {
		return message.RR{}, fmt.Errorf("add record %q: %w", spec, err)
	}

	return message.RR{Name: name, Type: rtype, Class: class, TTL: uint32(ttl), Data: record}, nil
}

// parseDelete parses "name type", producing an RFC 2136 §2.5.2 RRset
// deletion record: class ANY, TTL 0, no RDATA.
func parseDelete(spec string) (message.RR, error) {
	fields := strings.Fields(spec)
	if len(fields) != 2 {
		return message.RR{}, fmt.Errorf("delete record %q: expected \"name type\"", spec)
	}

	rtype, ok := codes.StringToType(strings.ToUpper(fields[1]))
	if !ok {
		return message.RR{}, fmt.Errorf("delete record %q: unknown type %q", spec, fields[1])
	}

	// RFC 2136 §2.5.2: an RRset deletion carries class ANY, TTL 0, and
	// zero-length RDATA — rr.Raw with no bytes serializes to exactly that,
	// regardless of what the named type's own RDATA shape would be.
	return message.RR{Name: fields[0], Type: rtype, Class: codes.ClassANY, TTL: 0, Data: &rr.Raw{RRType: rtype}}, nil
}
