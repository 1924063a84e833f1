package throttle

import (
	"context"
	"testing"
	"time"
)

func TestAllowRespectsBurst(t *testing.T) {
	l := New(Config{QueriesPerSecond: 1, BurstSize: 2, CleanupInterval: time.Hour})

	if !l.Allow("192.0.2.53:53") {
		t.Fatal("first query should be allowed")
	}
	if !l.Allow("192.0.2.53:53") {
		t.Fatal("second query should be allowed (within burst)")
	}
	if l.Allow("192.0.2.53:53") {
		t.Fatal("third immediate query should be throttled")
	}
}

func TestAllowTracksServersIndependently(t *testing.T) {
	l := New(Config{QueriesPerSecond: 1, BurstSize: 1, CleanupInterval: time.Hour})

	if !l.Allow("192.0.2.53:53") {
		t.Fatal("first server's first query should be allowed")
	}
	if !l.Allow("198.51.100.53:53") {
		t.Fatal("second server should have its own independent bucket")
	}
	if l.TrackedServers() != 2 {
		t.Errorf("TrackedServers() = %d, want 2", l.TrackedServers())
	}
}

func TestWaitUnblocksWhenTokenAvailable(t *testing.T) {
	l := New(Config{QueriesPerSecond: 1000, BurstSize: 1, CleanupInterval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := l.Wait(ctx, "192.0.2.53:53"); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestWaitRespectsCancellation(t *testing.T) {
	l := New(Config{QueriesPerSecond: 0.001, BurstSize: 1, CleanupInterval: time.Hour})
	l.Allow("192.0.2.53:53") // consume the only burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "192.0.2.53:53"); err == nil {
		t.Fatal("Wait() should fail once ctx is done before a token frees up")
	}
}
