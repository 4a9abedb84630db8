package kv

import (
	"strings"
	"testing"
)

func TestHashIP_Deterministic(t *testing.T) {
	t.Parallel()

	if hashIP("192.168.1.100") != hashIP("192.168.1.100") {
		t.Error("Same IP should produce same hash")
	}
}

func TestHashIP_Length(t *testing.T) {
	t.Parallel()

	for _, ip := range []string{"192.168.1.1", "::1", "2001:0db8:85a3:0000:0000:8a2e:0370:7334", ""} {
		if got := len(hashIP(ip)); got != 16 {
			t.Errorf("hashIP(%q) length = %d, want 16", ip, got)
		}
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	if hashIP("10.0.0.1") == hashIP("10.0.0.2") {
		t.Error("Different IPs should produce different hashes")
	}
}

func TestRateLimitKey_ScopedAndHashed(t *testing.T) {
	t.Parallel()

	login := rateLimitKey("login", "10.0.0.1")
	answer := rateLimitKey("answer", "10.0.0.1")

	if login == answer {
		t.Error("scopes should not share a bucket")
	}
	if !strings.HasPrefix(login, "ratelimit:ip:login:") {
		t.Errorf("unexpected key %q", login)
	}
	if strings.Contains(login, "10.0.0.1") {
		t.Error("raw IP must not appear in the key")
	}
}
