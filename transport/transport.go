// Package transport dials nameservers over UDP and TCP, frames and
// deframes messages on the wire, and pools persistent connections so a
// resolver reusing one nameserver doesn't pay a fresh handshake per
// query (spec §4.6).
package transport

import (
	"net"
	"time"

	"github.com/dnsscience/dnsgo/codes"
)

// Protocol distinguishes the two socket variants the resolver can pick
// between per attempt (spec §4.7 step 3).
type Protocol int

const (
	UDP Protocol = iota
	TCP
)

func (p Protocol) String() string {
	if p == TCP {
		return "tcp"
	}
	return "udp"
}

// DefaultTimeout is the per-request socket deadline absent an explicit
// override (spec §4.6).
const DefaultTimeout = 5 * time.Second

// MaxMessageSize is the largest message a 2-octet TCP length prefix can
// carry, and the ceiling this package enforces on any single read.
const MaxMessageSize = 65535

// Conn is a nameserver connection: write a whole message, read a whole
// message, each framed as the underlying protocol requires.
type Conn interface {
	// Write sends one complete DNS message.
	Write(msg []byte) error
	// Read receives one complete DNS message, blocking until deadline.
	Read(deadline time.Time) ([]byte, error)
	// Close releases the underlying socket.
	Close() error
	// Protocol reports which socket variant this is.
	Protocol() Protocol
}

// StreamConn is a Conn that can also read a bounded run of successive
// messages off one connection, such as an AXFR transfer. Only TCP
// connections implement it; callers type-assert Conn to StreamConn
// where streaming applies.
type StreamConn interface {
	Conn
	ReadStream(deadline time.Time, stop func(msg []byte) bool) ([][]byte, error)
}

func wrapNetError(err error) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return codes.Wrap(codes.Network, "timeout", err)
	}
	return codes.Wrap(codes.Network, "network error", err)
}
