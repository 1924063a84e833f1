package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startUDPEcho(t *testing.T) string {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, MaxMessageSize)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			conn.WriteToUDP(buf[:n], addr)
		}
	}()
	return conn.LocalAddr().String()
}

func TestUDPWriteReadRoundTrip(t *testing.T) {
	addr := startUDPEcho(t)

	conn, err := DialUDP(addr, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := []byte{0x12, 0x34, 0x01, 0x00}
	require.NoError(t, conn.Write(msg))

	got, err := conn.Read(time.Now().Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, msg, got)
	require.Equal(t, UDP, conn.Protocol())
}

func TestUDPReadTimesOutWithoutResponse(t *testing.T) {
	silent, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer silent.Close()

	conn, err := DialUDP(silent.LocalAddr().String(), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Write([]byte{1, 2, 3}))
	_, err = conn.Read(time.Now().Add(50 * time.Millisecond))
	require.Error(t, err)
}

func startTCPEcho(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				tc := &tcpConn{conn: c}
				for {
					msg, err := tc.Read(time.Now().Add(2 * time.Second))
					if err != nil {
						return
					}
					if err := tc.Write(msg); err != nil {
						return
					}
				}
			}(c)
		}
	}()
	return ln.Addr().String()
}

func TestTCPWriteReadRoundTrip(t *testing.T) {
	addr := startTCPEcho(t)

	conn, err := DialTCP(addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	msg := []byte{0x12, 0x34, 0x01, 0x00, 0x00, 0x01}
	require.NoError(t, conn.Write(msg))

	got, err := conn.Read(time.Now().Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, msg, got)
	require.Equal(t, TCP, conn.Protocol())
}

// TestTCPReadStreamStopsOnPredicate exercises AXFR-style multi-message
// streaming: the server sends several framed messages back-to-back and
// the caller's stop predicate ends the read after the terminating one.
func TestTCPReadStreamStopsOnPredicate(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	messages := [][]byte{{1}, {2}, {3}}
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		srv := &tcpConn{conn: c}
		for _, m := range messages {
			srv.Write(m)
		}
	}()

	conn, err := DialTCP(ln.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	tc := conn.(*tcpConn)
	got, err := tc.ReadStream(time.Now().Add(time.Second), func(msg []byte) bool {
		return len(msg) > 0 && msg[0] == 3
	})
	require.NoError(t, err)
	require.Equal(t, messages, got)
}

func TestPoolReusesConnection(t *testing.T) {
	addr := startTCPEcho(t)
	p := NewPool(time.Second, nil)

	c1, err := p.Get(addr, TCP)
	require.NoError(t, err)
	p.Put(addr, c1, true)

	c2, err := p.Get(addr, TCP)
	require.NoError(t, err)
	require.Same(t, c1, c2)

	p.Put(addr, c2, false)
	require.Equal(t, 0, len(p.conns))
}
