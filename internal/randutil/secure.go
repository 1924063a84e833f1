// Package randutil supplies the two pieces of transmit-side entropy the
// resolver depends on for cache-poisoning resistance (spec §4.7/§9): a
// crypto-random transaction ID per query, and a pool of crypto-random
// local UDP ports so source ports aren't left to predictable OS
// ephemeral-port allocation. Both are consumed directly by
// transport.DialUDP/transport.Pool and resolver.New; nothing else in
// this module needs a third source of request-identifying randomness.
package randutil

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrPortPoolExhausted = errors.New("no available ports in pool")
	ErrInvalidPortRange  = errors.New("invalid port range")
)

// TransactionID generates a cryptographically random 16-bit transaction
// ID. NEVER use math/rand here: a predictable ID lets an off-path
// attacker spoof a matching response before the real one arrives.
func TransactionID() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return binary.BigEndian.Uint16(buf[:])
}

// PortPool hands out randomized local UDP ports to transport.DialUDP,
// one per pooled connection, so the resolver doesn't rely solely on the
// kernel's ephemeral port allocator for source-port unpredictability.
type PortPool struct {
	mu sync.Mutex

	minPort int
	maxPort int

	available map[uint16]struct{}
	inUse     map[uint16]time.Time

	portLifetime time.Duration
}

// PortPoolConfig holds configuration for a PortPool.
type PortPoolConfig struct {
	// Port range (default: 32768-61000).
	MinPort int
	MaxPort int

	// Port lifetime before an in-use port is recycled if the pool runs
	// dry (default: 2 minutes; should exceed the resolver's longest
	// configured timeout).
	PortLifetime time.Duration
}

// NewPortPool creates a randomized port pool and starts its background
// recycler.
func NewPortPool(cfg PortPoolConfig) (*PortPool, error) {
	if cfg.MinPort == 0 {
		cfg.MinPort = 32768
	}
	if cfg.MaxPort == 0 {
		cfg.MaxPort = 61000
	}
	if cfg.PortLifetime == 0 {
		cfg.PortLifetime = 2 * time.Minute
	}

	if cfg.MinPort >= cfg.MaxPort {
		return nil, ErrInvalidPortRange
	}
	if cfg.MinPort < 1024 {
		return nil, errors.New("min port must be >= 1024 (non-privileged)")
	}

	portCount := cfg.MaxPort - cfg.MinPort

	p := &PortPool{
		minPort:      cfg.MinPort,
		maxPort:      cfg.MaxPort,
		available:    make(map[uint16]struct{}, portCount),
		inUse:        make(map[uint16]time.Time, portCount),
		portLifetime: cfg.PortLifetime,
	}

	for port := cfg.MinPort; port < cfg.MaxPort; port++ {
		p.available[uint16(port)] = struct{}{}
	}

	go p.cleanup()

	return p, nil
}

// Allocate returns a random available port, or, if the pool is
// exhausted, recycles the first in-use port found whose allocation is
// older than the port lifetime (not necessarily the oldest one).
func (p *PortPool) Allocate() (uint16, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) > 0 {
		ports := make([]uint16, 0, len(p.available))
		for port := range p.available {
			ports = append(ports, port)
		}

		var buf [4]byte
		rand.Read(buf[:])
		idx := int(binary.BigEndian.Uint32(buf[:])) % len(ports)
		selectedPort := ports[idx]

		delete(p.available, selectedPort)
		p.inUse[selectedPort] = time.Now()

		return selectedPort, nil
	}

	now := time.Now()
	for port, allocated := range p.inUse {
		if now.Sub(allocated) > p.portLifetime {
			p.inUse[port] = now
			return port, nil
		}
	}

	return 0, ErrPortPoolExhausted
}

// Release returns port to the available pool.
func (p *PortPool) Release(port uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.inUse, port)

	if int(port) >= p.minPort && int(port) < p.maxPort {
		p.available[port] = struct{}{}
	}
}

// cleanup periodically recycles ports left in-use past portLifetime —
// e.g. a connection whose Close never ran because its process died.
func (p *PortPool) cleanup() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()

		now := time.Now()
		var recycled []uint16
		for port, allocated := range p.inUse {
			if now.Sub(allocated) > p.portLifetime {
				recycled = append(recycled, port)
			}
		}
		for _, port := range recycled {
			delete(p.inUse, port)
			p.available[port] = struct{}{}
		}

		p.mu.Unlock()
	}
}
