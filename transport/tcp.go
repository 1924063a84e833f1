package transport

import (
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/internal/pool"
)

// tcpConn is a TCP nameserver socket. Every message on the wire is
// prefixed with its own 2-octet big-endian length (spec §4.6).
type tcpConn struct {
	conn net.Conn
}

// DialTCP connects a TCP socket to address (host:port).
func DialTCP(address string, timeout time.Duration) (Conn, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, wrapNetError(err)
	}
	return &tcpConn{conn: conn}, nil
}

func (t *tcpConn) Write(msg []byte) error {
	if len(msg) > MaxMessageSize {
		return codes.New(codes.Network, "message exceeds 65535 octets, cannot be length-framed")
	}
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(msg)))

	if _, err := t.conn.Write(lenPrefix[:]); err != nil {
		return wrapNetError(err)
	}
	n, err := t.conn.Write(msg)
	if err != nil {
		return wrapNetError(err)
	}
	if n != len(msg) {
		return codes.New(codes.Network, "short write")
	}
	return nil
}

// Read reads the 2-octet length prefix then exactly that many bytes,
// across as many read syscalls as needed (spec §4.6).
func (t *tcpConn) Read(deadline time.Time) ([]byte, error) {
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, codes.Wrap(codes.Network, "set read deadline", err)
	}

	var lenPrefix [2]byte
	if _, err := io.ReadFull(t.conn, lenPrefix[:]); err != nil {
		return nil, wrapShortRead(err)
	}
	msgLen := binary.BigEndian.Uint16(lenPrefix[:])

	buf := pool.GetBuffer(int(msgLen))
	defer pool.PutBuffer(buf)

	if _, err := io.ReadFull(t.conn, buf[:msgLen]); err != nil {
		return nil, wrapShortRead(err)
	}

	out := make([]byte, msgLen)
	copy(out, buf[:msgLen])
	return out, nil
}

// ReadStream reads successive length-prefixed messages until stop
// returns true for a decoded message, or an I/O error occurs. Used for
// AXFR, where the terminating condition is "answer section ends with
// the zone's SOA" (spec §4.7 step 8) — that decision is the caller's,
// ReadStream only knows about message framing.
func (t *tcpConn) ReadStream(deadline time.Time, stop func(msg []byte) bool) ([][]byte, error) {
	var messages [][]byte
	for {
		msg, err := t.Read(deadline)
		if err != nil {
			return messages, err
		}
		messages = append(messages, msg)
		if stop(msg) {
			return messages, nil
		}
	}
}

func (t *tcpConn) Close() error {
	return t.conn.Close()
}

func (t *tcpConn) Protocol() Protocol { return TCP }

func wrapShortRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return codes.Wrap(codes.Network, "short read", err)
	}
	return wrapNetError(err)
}
