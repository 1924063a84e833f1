package transport

import (
	"net"
	"time"

	"github.com/dnsscience/dnsgo/codes"
	"github.com/dnsscience/dnsgo/internal/pool"
	"github.com/dnsscience/dnsgo/internal/randutil"
)

// udpConn is a UDP nameserver socket. A single UDP response is read per
// Read call; DNS over UDP carries exactly one message per datagram, so
// no length framing is needed.
type udpConn struct {
	conn *net.UDPConn
	port uint16
	pool *randutil.PortPool
}

// DialUDP connects a UDP socket to address (host:port), binding its
// local source port from ports if non-nil. A resolver-wide PortPool
// keeps the source port's randomization independent of OS ephemeral
// port allocation, which some kernels make more predictable than the
// birthday-bound Kaminsky defense this module relies on assumes.
func DialUDP(address string, ports *randutil.PortPool) (Conn, error) {
	raddr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, codes.Wrap(codes.Network, "resolve UDP address", err)
	}

	var laddr *net.UDPAddr
	var port uint16
	if ports != nil {
		port, err = ports.Allocate()
		if err != nil {
			return nil, codes.Wrap(codes.Network, "allocate source port", err)
		}
		laddr = &net.UDPAddr{Port: int(port)}
	}

	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		if ports != nil {
			ports.Release(port)
		}
		return nil, wrapNetError(err)
	}
	return &udpConn{conn: conn, port: port, pool: ports}, nil
}

func (u *udpConn) Write(msg []byte) error {
	n, err := u.conn.Write(msg)
	if err != nil {
		return wrapNetError(err)
	}
	if n != len(msg) {
		return codes.New(codes.Network, "short write")
	}
	return nil
}

func (u *udpConn) Read(deadline time.Time) ([]byte, error) {
	if err := u.conn.SetReadDeadline(deadline); err != nil {
		return nil, codes.Wrap(codes.Network, "set read deadline", err)
	}
	buf := pool.GetLargeBuffer()
	defer pool.PutLargeBuffer(buf)

	n, err := u.conn.Read(buf)
	if err != nil {
		return nil, wrapNetError(err)
	}

	out := make([]byte, n)
	copy(out, buf[:n])
	return out, nil
}

func (u *udpConn) Close() error {
	if u.pool != nil {
		u.pool.Release(u.port)
	}
	return u.conn.Close()
}

func (u *udpConn) Protocol() Protocol { return UDP }
