// Package cookie implements the client side of DNS Cookies (RFC 7873):
// generating a fresh client cookie per nameserver, remembering the most
// recently observed server cookie so it can be echoed on the next query
// to that same server (RFC 7873 §5.2), and checking that a response's
// client cookie matches what was sent (§5.3) as a cheap anti-spoofing
// check alongside transaction-ID and 0x20 validation.
//
// This is adapted from a server-side cookie manager that additionally
// generated and verified server cookies (RFC 9018); that half does not
// apply to a stub/forwarding resolver, which only ever plays the client
// role, so it has been dropped here — see the per-nameserver cache below
// in place of the secret-rotation machinery a server would need.
package cookie

import (
	"crypto/rand"
	"errors"
	"sync"

	"github.com/dchest/siphash"
)

var (
	ErrInvalidCookie        = errors.New("invalid cookie format")
	ErrInvalidClientCookie  = errors.New("invalid client cookie")
	ErrInvalidServerCookie  = errors.New("invalid server cookie")
	ErrClientCookieMismatch = errors.New("response client cookie does not match the query's")
)

const (
	// Cookie sizes per RFC 7873.
	clientCookieSize = 8
	minServerCookie  = 8
	maxServerCookie  = 32
)

// ClientCookie is the 8-byte value a client attaches to every query.
// RFC 7873 §4 recommends deriving it from a per-client secret plus the
// nameserver's address so that it is stable per-server but unguessable;
// this implementation follows that via SipHash-2-4 over a random local
// secret and the nameserver address, matching the keyed-hash approach
// BIND 9 uses for its own (server-side) cookie generation.
type ClientCookie [8]byte

// Cache remembers, per nameserver address, the client cookie this
// resolver is using and the most recent server cookie that nameserver
// returned, so both can be resent on the next query (RFC 7873 §5.2).
type Cache struct {
	mu     sync.Mutex
	secret [16]byte
	byAddr map[string]*entry
}

type entry struct {
	client ClientCookie
	server []byte
}

// NewCache creates a cookie cache with a fresh random client secret.
func NewCache() (*Cache, error) {
	c := &Cache{byAddr: make(map[string]*entry)}
	if _, err := rand.Read(c.secret[:]); err != nil {
		return nil, err
	}
	return c, nil
}

// ClientCookieFor returns the client cookie to use for addr, generating
// one on first use and reusing it thereafter (a client cookie need not
// change between queries to the same server; RFC 7873 §4 only requires
// unpredictability, not per-query freshness).
func (c *Cache) ClientCookieFor(addr string) ClientCookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byAddr[addr]
	if !ok {
		e = &entry{client: c.generateClientCookie(addr)}
		c.byAddr[addr] = e
	}
	return e.client
}

func (c *Cache) generateClientCookie(addr string) ClientCookie {
	h := siphash.New(c.secret[:])
	h.Write([]byte(addr))
	sum := h.Sum64()

	var cc ClientCookie
	for i := 0; i < 8; i++ {
		cc[i] = byte(sum >> (8 * uint(i)))
	}
	return cc
}

// OptionValue builds the EDNS0 COOKIE option payload to attach to the
// next query sent to addr: the client cookie, plus any server cookie
// remembered from that server's last response.
func (c *Cache) OptionValue(addr string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byAddr[addr]
	if !ok {
		cc := c.generateClientCookie(addr)
		c.byAddr[addr] = &entry{client: cc}
		return FormatCookie(cc, nil)
	}
	return FormatCookie(e.client, e.server)
}

// Observe records the server cookie from a validated response so it can
// be echoed on the next query to addr.
func (c *Cache) Observe(addr string, serverCookie []byte) {
	if len(serverCookie) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byAddr[addr]
	if !ok {
		return
	}
	e.server = append([]byte(nil), serverCookie...)
}

// ValidateResponse checks that a response's client cookie matches the
// one this resolver sent for addr (RFC 7873 §5.3): a mismatch means the
// response did not actually come from, or was not actually answering,
// the query this resolver issued.
func (c *Cache) ValidateResponse(addr string, responseClientCookie [8]byte) error {
	c.mu.Lock()
	e, ok := c.byAddr[addr]
	c.mu.Unlock()

	if !ok {
		return ErrInvalidClientCookie
	}
	if !constantTimeEqual(e.client[:], responseClientCookie[:]) {
		return ErrClientCookieMismatch
	}
	return nil
}

// ParseCookie extracts the client and (if present) server cookie from an
// EDNS0 COOKIE option's raw value (RFC 7873 §4): 8-byte client cookie
// followed by an optional 8-to-32-byte server cookie.
func ParseCookie(data []byte) (clientCookie [8]byte, serverCookie []byte, err error) {
	if len(data) < clientCookieSize {
		return clientCookie, nil, ErrInvalidClientCookie
	}
	copy(clientCookie[:], data[:clientCookieSize])

	if len(data) > clientCookieSize {
		serverCookie = append([]byte(nil), data[clientCookieSize:]...)
		if len(serverCookie) < minServerCookie || len(serverCookie) > maxServerCookie {
			return clientCookie, nil, ErrInvalidServerCookie
		}
	}
	return clientCookie, serverCookie, nil
}

// FormatCookie builds the raw EDNS0 COOKIE option value from a client
// cookie and an optional server cookie.
func FormatCookie(clientCookie [8]byte, serverCookie []byte) []byte {
	data := make([]byte, clientCookieSize+len(serverCookie))
	copy(data[:clientCookieSize], clientCookie[:])
	copy(data[clientCookieSize:], serverCookie)
	return data
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var result byte
	for i := range a {
		result |= a[i] ^ b[i]
	}
	return result == 0
}
