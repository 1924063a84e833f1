// Package resolver is a stub/forwarding DNS resolver: it sends queries
// to a configured set of upstream nameservers, rotates and retries
// across them, and applies the EDNS0/cookie/TSIG hardening each
// request is configured for (spec §4.7, §6). It does not attach SIG(0)
// records to requests; package dnssec signs messages separately. It never resolves
// recursively and never serves answers itself — every request leaves
// the wire to some other server.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/internal/cookie"
	"github.com/dnsscience/dnsgo/internal/metrics"
	"github.com/dnsscience/dnsgo/internal/pool"
	"github.com/dnsscience/dnsgo/internal/randutil"
	"github.com/dnsscience/dnsgo/internal/throttle"
	"github.com/dnsscience/dnsgo/message"
	"github.com/dnsscience/dnsgo/rr"
	"github.com/dnsscience/dnsgo/transport"
	"github.com/dnsscience/dnsgo/tsig"
	"github.com/dnsscience/dnsgo/wire"
)

// defaultTSIGFudge is the allowed clock skew window, in seconds, this
// resolver signs every request with; Config has no field to change it
// (RFC 8945 §5.2 recommends 300s).
const defaultTSIGFudge = 300

// Resolver sends queries and updates to a fixed set of nameservers. A
// Resolver is NOT safe for concurrent use from multiple goroutines (spec
// §5): give each worker its own Resolver. Close releases its pooled
// connections.
type Resolver struct {
	cfg      Config
	pool     *transport.Pool
	cookies  *cookie.Cache
	throttle *throttle.Limiter
	tsigKey  *tsig.Key
}

// New builds a Resolver from cfg, which must carry at least one
// nameserver.
func New(cfg Config) (*Resolver, error) {
	if len(cfg.Nameservers) == 0 {
		return nil, codes.New(codes.Configuration, "resolver requires at least one nameserver")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = transport.DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	ports, err := randutil.NewPortPool(randutil.PortPoolConfig{})
	if err != nil {
		return nil, codes.Wrap(codes.Configuration, "create source port pool", err)
	}

	r := &Resolver{
		cfg:  cfg,
		pool: transport.NewPool(cfg.Timeout, ports),
	}

	if cfg.UseCookies {
		c, err := cookie.NewCache()
		if err != nil {
			return nil, codes.Wrap(codes.Resource, "create cookie cache", err)
		}
		r.cookies = c
	}

	if cfg.ThrottleQPS > 0 {
		r.throttle = throttle.New(throttle.Config{
			QueriesPerSecond: cfg.ThrottleQPS,
			BurstSize:        burstFor(cfg.ThrottleQPS),
			CleanupInterval:  5 * time.Minute,
		})
	}

	if cfg.TSIGKeyName != "" {
		r.tsigKey = &tsig.Key{Name: cfg.TSIGKeyName, Algorithm: cfg.TSIGAlgorithm, Secret: cfg.TSIGSecret}
	}

	return r, nil
}

func burstFor(qps float64) int {
	b := int(qps * 2)
	if b < 1 {
		b = 1
	}
	return b
}

// Close releases every pooled connection. A Resolver is not usable
// afterward.
func (r *Resolver) Close() {
	r.pool.CloseAll()
}

// Query resolves one (name, qtype, qclass) question (spec §6), applying
// 0x20 entropy, EDNS0/cookies, and TSIG as configured, and rotating
// across nameservers on failure per shouldAdvance.
func (r *Resolver) Query(ctx context.Context, name string, qtype, qclass uint16) (*message.Message, error) {
	queryName := name
	if r.cfg.Use0x20 {
		queryName = apply0x20(name)
	}
	template := &message.Message{
		Header:   wire.Header{Opcode: codes.OpcodeQuery, RD: true},
		Question: []message.Question{{Name: queryName, Type: qtype, Class: qclass}},
	}
	return r.roundTrip(ctx, template, false)
}

// Update sends a dynamic update (RFC 2136) for zone: updates supplies
// the update section (RRs to add, or to delete via class NONE/ANY
// deletion records per RFC 2136 §2.5).
func (r *Resolver) Update(ctx context.Context, zone string, updates []message.RR) (*message.Message, error) {
	template := &message.Message{
		Header:    wire.Header{Opcode: codes.OpcodeUpdate},
		Question:  []message.Question{{Name: zone, Type: codes.TypeSOA, Class: codes.ClassIN}},
		Authority: updates,
	}
	return r.roundTrip(ctx, template, false)
}

// AXFR performs a full zone transfer of zone (RFC 5936), always over
// TCP, returning every record from the opening SOA through the closing
// SOA that terminates the transfer.
func (r *Resolver) AXFR(ctx context.Context, zone string) ([]message.RR, error) {
	template := &message.Message{
		Header:   wire.Header{Opcode: codes.OpcodeQuery, RD: true},
		Question: []message.Question{{Name: zone, Type: codes.TypeAXFR, Class: codes.ClassIN}},
	}

	list := newNameserverList(r.cfg.Nameservers, r.cfg.NSRandom)
	var lastErr error
	for {
		addr, ok := list.current()
		if !ok {
			break
		}

		records, err := r.axfrAttempt(ctx, addr, template)
		if err == nil {
			return records, nil
		}
		lastErr = err
		metrics.RecordRetry("axfr-failed")
		list.advance()
	}
	if lastErr == nil {
		lastErr = codes.New(codes.Configuration, "no nameservers configured")
	}
	return nil, lastErr
}

func (r *Resolver) axfrAttempt(ctx context.Context, addr string, template *message.Message) ([]message.RR, error) {
	reqID := randutil.TransactionID()
	req := cloneMessage(template)
	req.Header.ID = reqID

	if r.tsigKey != nil {
		if err := tsig.Sign(req, *r.tsigKey, uint64(time.Now().Unix()), defaultTSIGFudge); err != nil {
			return nil, codes.Wrap(codes.Authentication, "sign AXFR request", err)
		}
	}

	encoded, err := message.Encode(req)
	if err != nil {
		return nil, codes.Wrap(codes.PacketMalformed, "encode AXFR request", err)
	}
	pool.PutMessage(req) // nothing below reads req again

	conn, err := r.pool.Get(addr, transport.TCP)
	if err != nil {
		return nil, err
	}
	stream, ok := conn.(transport.StreamConn)
	if !ok {
		r.pool.Put(addr, conn, false)
		return nil, codes.New(codes.Network, "transport connection does not support streaming reads")
	}

	if err := stream.Write(encoded); err != nil {
		r.pool.Put(addr, conn, false)
		return nil, err
	}

	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = transport.DefaultTimeout
	}
	deadline := time.Now().Add(timeout)

	firstSOASeen := false
	raws, err := stream.ReadStream(deadline, func(raw []byte) bool {
		resp, decErr := message.Decode(raw)
		if decErr != nil {
			return false
		}
		for _, a := range resp.Answer {
			if a.Type == codes.TypeSOA {
				if !firstSOASeen {
					firstSOASeen = true
					continue
				}
				return true
			}
		}
		return false
	})
	if err != nil {
		r.pool.Put(addr, conn, false)
		return nil, codes.Wrap(codes.Network, "AXFR transfer did not complete", err)
	}

	var records []message.RR
	for _, raw := range raws {
		resp, decErr := message.Decode(raw)
		if decErr != nil {
			r.pool.Put(addr, conn, false)
			return nil, codes.Wrap(codes.PacketMalformed, "decode AXFR response", decErr)
		}
		if resp.Header.ID != reqID {
			r.pool.Put(addr, conn, false)
			return nil, codes.New(codes.ResponseInvalid, "AXFR response ID mismatch")
		}
		if resp.Header.Rcode != codes.RcodeSuccess {
			r.pool.Put(addr, conn, false)
			return nil, codes.RcodeError(int(resp.Header.Rcode))
		}
		records = append(records, resp.Answer...)
	}

	r.pool.Put(addr, conn, true)
	return records, nil
}

// roundTrip drives the per-attempt rotation/retry loop shared by Query
// and Update (spec §4.7): walk the configured nameservers for up to
// Retries+1 passes, classifying each attempt's outcome through
// shouldAdvance until one succeeds or every pass is exhausted.
func (r *Resolver) roundTrip(ctx context.Context, template *message.Message, forceTCP bool) (*message.Message, error) {
	list := newNameserverList(r.cfg.Nameservers, r.cfg.NSRandom)
	passes := r.cfg.Retries + 1
	if passes < 1 {
		passes = 1
	}

	var lastErr error
	for pass := 0; pass < passes; pass++ {
		list.idx = 0
		for {
			select {
			case <-ctx.Done():
				return nil, codes.Wrap(codes.Network, "context canceled", ctx.Err())
			default:
			}

			addr, ok := list.current()
			if !ok {
				break
			}

			protocol := transport.UDP
			if forceTCP {
				protocol = transport.TCP
			}

			resp, outcome, err := r.attempt(ctx, addr, protocol, template)
			if err == nil {
				switch resp.Header.Rcode {
				case codes.RcodeSuccess:
					return resp, nil
				case codes.RcodeServerFailure, codes.RcodeRefused:
					lastErr = codes.RcodeError(int(resp.Header.Rcode))
					metrics.RecordRetry("servfail")
					if shouldAdvance(outcomeServfailOrRefused, r.cfg.RetryServfail) {
						list.advance()
					}
					continue
				default:
					return resp, codes.RcodeError(int(resp.Header.Rcode))
				}
			}

			lastErr = err
			var dnsErr *codes.Error
			if errors.As(err, &dnsErr) && dnsErr.Kind == codes.Authentication {
				return nil, err
			}
			metrics.RecordRetry(outcomeReason(outcome))
			if shouldAdvance(outcome, r.cfg.RetryServfail) {
				list.advance()
			}
		}
	}

	if lastErr == nil {
		lastErr = codes.New(codes.Configuration, "no nameservers configured")
	}
	return nil, lastErr
}

func outcomeReason(o attemptOutcome) string {
	switch o {
	case outcomeTimeout:
		return "timeout"
	case outcomeNetworkError:
		return "network-error"
	case outcomeServfailOrRefused:
		return "servfail"
	default:
		return "unknown"
	}
}

// attempt sends template to one nameserver over one protocol and waits
// for a validated response, transparently switching UDP to TCP if the
// response comes back truncated (spec §4.7 step 6).
func (r *Resolver) attempt(ctx context.Context, addr string, protocol transport.Protocol, template *message.Message) (*message.Message, attemptOutcome, error) {
	start := time.Now()
	reqID := randutil.TransactionID()

	req := cloneMessage(template)
	req.Header.ID = reqID

	if r.cfg.EDNSPayloadSize > 0 {
		opt := &rr.OPT{UDPSize: r.cfg.EDNSPayloadSize, DO: r.cfg.DNSSEC}
		if r.cfg.UseCookies && r.cookies != nil {
			opt.SetCookie(r.cookies.OptionValue(addr))
		}
		req.Additional = append(req.Additional, message.RR{Name: ".", Type: codes.TypeOPT, Data: opt})
	}

	var requestMAC []byte
	if r.tsigKey != nil {
		if err := tsig.Sign(req, *r.tsigKey, uint64(time.Now().Unix()), defaultTSIGFudge); err != nil {
			return nil, outcomeNetworkError, codes.Wrap(codes.Authentication, "sign request", err)
		}
		requestMAC = req.Additional[len(req.Additional)-1].Data.(*rr.TSIG).MAC
	}

	if r.throttle != nil {
		if err := r.throttle.Wait(ctx, addr); err != nil {
			return nil, outcomeNetworkError, codes.Wrap(codes.Network, "throttle wait", err)
		}
	}

	encoded, err := message.Encode(req)
	if err != nil {
		return nil, outcomeNetworkError, codes.Wrap(codes.PacketMalformed, "encode request", err)
	}
	reqQuestion := req.Question[0] // validateResponse needs this after req is pooled
	pool.PutMessage(req)

	conn, err := r.pool.Get(addr, protocol)
	if err != nil {
		return nil, outcomeNetworkError, err
	}

	if err := conn.Write(encoded); err != nil {
		r.pool.Put(addr, conn, false)
		return nil, outcomeNetworkError, err
	}

	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = transport.DefaultTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		raw, err := conn.Read(deadline)
		if err != nil {
			r.pool.Put(addr, conn, false)
			return nil, classifyReadError(err), err
		}

		resp, decErr := message.Decode(raw)
		if decErr != nil {
			if protocol == transport.UDP && time.Now().Before(deadline) {
				continue // malformed/spoofed datagram: keep waiting for the real response
			}
			r.pool.Put(addr, conn, false)
			return nil, outcomeNetworkError, codes.Wrap(codes.PacketMalformed, "decode response", decErr)
		}

		if err := validateResponse(reqID, reqQuestion, r.cfg.Use0x20, resp); err != nil {
			if protocol == transport.UDP && time.Now().Before(deadline) {
				continue
			}
			r.pool.Put(addr, conn, false)
			return nil, outcomeNetworkError, err
		}

		if resp.Header.TC && protocol == transport.UDP {
			r.pool.Put(addr, conn, true)
			metrics.RecordRetry("truncated")
			return r.attempt(ctx, addr, transport.TCP, template)
		}

		if r.cfg.UseCookies && r.cookies != nil {
			if err := r.verifyCookie(addr, resp); err != nil {
				r.pool.Put(addr, conn, false)
				return nil, outcomeNetworkError, err
			}
		}

		if r.tsigKey != nil {
			if err := tsig.Verify(resp, *r.tsigKey, uint64(time.Now().Unix()), requestMAC); err != nil {
				metrics.RecordTSIGFailure("verify-failed")
				r.pool.Put(addr, conn, false)
				return nil, outcomeNetworkError, err
			}
		}

		r.pool.Put(addr, conn, true)
		metrics.ObserveQuery(addr, protocol.String(), codes.RcodeToString(int(resp.Header.Rcode)), start)
		return resp, outcomeSuccess, nil
	}
}

func classifyReadError(err error) attemptOutcome {
	var dnsErr *codes.Error
	if errors.As(err, &dnsErr) && dnsErr.Kind == codes.Network {
		return outcomeTimeout
	}
	return outcomeNetworkError
}

// verifyCookie checks a response's EDNS0 COOKIE option against what this
// resolver sent (RFC 7873 §5.3), remembering any server cookie for reuse.
func (r *Resolver) verifyCookie(addr string, resp *message.Message) error {
	for _, a := range resp.Additional {
		opt, ok := a.Data.(*rr.OPT)
		if !ok {
			continue
		}
		raw, ok := opt.Cookie()
		if !ok {
			return nil // server didn't echo a cookie; nothing to check
		}
		clientCookie, serverCookie, err := cookie.ParseCookie(raw)
		if err != nil {
			return codes.Wrap(codes.ResponseInvalid, "parse response cookie", err)
		}
		if err := r.cookies.ValidateResponse(addr, clientCookie); err != nil {
			return codes.Wrap(codes.ResponseInvalid, "cookie validation failed", err)
		}
		r.cookies.Observe(addr, serverCookie)
		return nil
	}
	return nil
}

// cloneMessage builds a per-attempt request from template, drawing the
// destination *message.Message from pool so the section slices' backing
// arrays get reused across queries instead of allocated fresh each time.
// The caller owns the returned message and must pool.PutMessage it back
// once nothing in this attempt still reads from it.
func cloneMessage(m *message.Message) *message.Message {
	req := pool.GetMessage()
	req.Header = m.Header
	req.Question = append(req.Question[:0], m.Question...)
	req.Answer = append(req.Answer[:0], m.Answer...)
	req.Authority = append(req.Authority[:0], m.Authority...)
	req.Additional = append(req.Additional[:0], m.Additional...)
	return req
}
