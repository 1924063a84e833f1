// Package throttle paces outbound queries per nameserver so a single
// misbehaving or unreachable server cannot be hammered by retries, and
// so a host program fanning out many resolver instances at the same
// upstream doesn't exceed whatever that server is willing to accept.
package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config controls the token-bucket limiter created per nameserver.
type Config struct {
	QueriesPerSecond float64       // steady-state queries allowed per nameserver
	BurstSize        int           // burst allowance above the steady rate
	CleanupInterval  time.Duration // how often all per-server limiters are discarded and recreated on demand
}

// DefaultConfig returns sensible defaults for a stub resolver talking to
// a handful of upstream nameservers.
func DefaultConfig() Config {
	return Config{
		QueriesPerSecond: 50,
		BurstSize:        100,
		CleanupInterval:  5 * time.Minute,
	}
}

// Limiter paces outbound queries keyed by nameserver address, so retries
// against one slow or unresponsive server don't starve queries bound for
// others sharing the same resolver.
type Limiter struct {
	mu              sync.Mutex
	byServer        map[string]*rate.Limiter
	queriesPerSec   rate.Limit
	burstSize       int
	cleanupInterval time.Duration
	lastCleanup     time.Time
}

// New creates a Limiter from cfg.
func New(cfg Config) *Limiter {
	return &Limiter{
		byServer:        make(map[string]*rate.Limiter),
		queriesPerSec:   rate.Limit(cfg.QueriesPerSecond),
		burstSize:       cfg.BurstSize,
		cleanupInterval: cfg.CleanupInterval,
		lastCleanup:     time.Now(),
	}
}

// Allow reports whether a query to addr may be sent now, consuming a
// token from that nameserver's bucket if so.
func (l *Limiter) Allow(addr string) bool {
	return l.limiterFor(addr).Allow()
}

// Wait blocks until a query to addr is permitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context, addr string) error {
	return l.limiterFor(addr).Wait(ctx)
}

func (l *Limiter) limiterFor(addr string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.lastCleanup) > l.cleanupInterval {
		l.byServer = make(map[string]*rate.Limiter)
		l.lastCleanup = time.Now()
	}

	lim, ok := l.byServer[addr]
	if !ok {
		lim = rate.NewLimiter(l.queriesPerSec, l.burstSize)
		l.byServer[addr] = lim
	}
	return lim
}

// TrackedServers returns the number of nameservers currently holding a
// limiter, mostly useful for tests and diagnostics.
func (l *Limiter) TrackedServers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byServer)
}
