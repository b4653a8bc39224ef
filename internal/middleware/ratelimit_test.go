package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	r := NewInMemoryRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !r.Allow("10.0.0.1") {
			t.Fatalf("request %d blocked under limit", i+1)
		}
	}
	if r.Allow("10.0.0.1") {
		t.Error("request over limit allowed")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	r := NewInMemoryRateLimiter(1, time.Minute)
	if !r.Allow("10.0.0.1") {
		t.Fatal("first key blocked")
	}
	if !r.Allow("10.0.0.2") {
		t.Error("second key blocked by first key's usage")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	r := NewInMemoryRateLimiter(1, 10*time.Millisecond)
	if !r.Allow("10.0.0.1") {
		t.Fatal("first request blocked")
	}
	if r.Allow("10.0.0.1") {
		t.Fatal("second request allowed inside window")
	}
	time.Sleep(20 * time.Millisecond)
	if !r.Allow("10.0.0.1") {
		t.Error("request blocked after window expired")
	}
}
