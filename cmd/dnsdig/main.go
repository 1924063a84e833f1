// Command dnsdig is a minimal dig-like CLI exercising package resolver's
// forwarding query path end to end: one name, one type, one nameserver
// list, printed in a dig-ish presentation format.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/resolver"
)

var (
	server        = flag.String("server", "127.0.0.1:53", "nameserver address (host:port)")
	qtypeFlag     = flag.String("type", "A", "query type (A, AAAA, MX, TXT, ...)")
	timeout       = flag.Duration("timeout", 5*time.Second, "per-attempt timeout")
	retries       = flag.Int("retries", 1, "number of extra passes over the nameserver list after the first")
	use0x20       = flag.Bool("0x20", false, "enable 0x20 case-randomization entropy")
	useCookies    = flag.Bool("cookie", false, "attach an EDNS0 client cookie")
	dnssec        = flag.Bool("dnssec", false, "set the EDNS0 DO bit")
	ednsSize      = flag.Uint("bufsize", 1232, "EDNS0 advertised UDP payload size (0 disables EDNS0)")
	tsigName      = flag.String("tsig-name", "", "TSIG key name (enables signing when non-empty)")
	tsigAlgorithm = flag.String("tsig-algorithm", codes.HmacSHA256, "TSIG algorithm")
	tsigSecret    = flag.String("tsig-secret", "", "TSIG secret, base64")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dnsdig [flags] <name>")
		os.Exit(2)
	}
	name := flag.Arg(0)

	qtype, ok := codes.StringToType(strings.ToUpper(*qtypeFlag))
	if !ok {
		fmt.Fprintf(os.Stderr, "dnsdig: unknown query type %q\n", *qtypeFlag)
		os.Exit(2)
	}

	cfg := resolver.DefaultConfig()
	cfg.Nameservers = []string{*server}
	cfg.Timeout = *timeout
	cfg.Retries = *retries
	cfg.Use0x20 = *use0x20
	cfg.UseCookies = *useCookies
	cfg.DNSSEC = *dnssec
	cfg.EDNSPayloadSize = uint16(*ednsSize)

	if *tsigName != "" {
		secret, err := decodeTSIGSecret(*tsigSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dnsdig: %v\n", err)
			os.Exit(1)
		}
		cfg.TSIGKeyName = *tsigName
		cfg.TSIGAlgorithm = *tsigAlgorithm
		cfg.TSIGSecret = secret
	}

	res, err := resolver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsdig: %v\n", err)
		os.Exit(1)
	}
	defer res.Close()

	start := time.Now()
	resp, err := res.Query(context.Background(), name, qtype, codes.ClassIN)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsdig: %v\n", err)
		os.Exit(1)
	}

	printResponse(resp, elapsed, *server)
}

func printResponse(resp *message.Message, elapsed time.Duration, server string) {
	fmt.Printf(";; Got answer:\n")
	fmt.Printf(";; ->>HEADER<<- opcode: %s, status: %s, id: %d\n",
		opcodeString(resp.Header.Opcode), codes.RcodeToString(int(resp.Header.Rcode)), resp.Header.ID)
	fmt.Printf(";; flags:%s; QUERY: %d, ANSWER: %d, AUTHORITY: %d, ADDITIONAL: %d\n",
		flagString(resp), len(resp.Question), len(resp.Answer), len(resp.Authority), len(resp.Additional))
	fmt.Println()

	if len(resp.Question) > 0 {
		fmt.Printf(";; QUESTION SECTION:\n")
		for _, q := range resp.Question {
			fmt.Printf(";%s\t\t%s\t%s\n", q.Name, codes.ClassToString(q.Class), codes.TypeToString(q.Type))
		}
		fmt.Println()
	}

	printSection("ANSWER", resp.Answer)
	printSection("AUTHORITY", resp.Authority)
	printSection("ADDITIONAL", resp.Additional)

	fmt.Printf(";; Query time: %v\n", elapsed)
	fmt.Printf(";; SERVER: %s\n", server)
}

func printSection(title string, rrs []message.RR) {
	if len(rrs) == 0 {
		return
	}
	fmt.Printf(";; %s SECTION:\n", title)
	for _, rr := range rrs {
		fmt.Printf("%s\t%d\t%s\t%s\t%s\n", rr.Name, rr.TTL, codes.ClassToString(rr.Class), codes.TypeToString(rr.Type), rr.Data.FormatText())
	}
	fmt.Println()
}

func decodeTSIGSecret(s string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode TSIG secret: %w", err)
	}
	return secret, nil
}

func opcodeString(opcode uint8) string {
	switch opcode {
	case codes.OpcodeQuery:
		return "QUERY"
	case codes.OpcodeUpdate:
		return "UPDATE"
	default:
		return fmt.Sprintf("OPCODE%d", opcode)
	}
}

func flagString(resp *message.Message) string {
	h := resp.Header
	var out string
	if h.QR {
		out += " qr"
	}
	if h.AA {
		out += " aa"
	}
	if h.TC {
		out += " tc"
	}
	if h.RD {
		out += " rd"
	}
	if h.RA {
		out += " ra"
	}
	if h.AD {
		out += " ad"
	}
	if h.CD {
		out += " cd"
	}
	return out
}
