package ratelimit

import (
	"testing"
	"time"
)

func TestAllowUpToMaxThenBlocks(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	for i := 0; i < 3; i++ {
		if !l.Allow("alice", now) {
			t.Fatalf("event %d: expected allowed", i)
		}
	}
	if l.Allow("alice", now) {
		t.Fatalf("4th event within window: expected blocked")
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	if !l.Allow("alice", now) {
		t.Fatalf("first event: expected allowed")
	}
	if l.Allow("alice", now.Add(30*time.Second)) {
		t.Fatalf("event within window: expected blocked")
	}
	if !l.Allow("alice", now.Add(61*time.Second)) {
		t.Fatalf("event after window: expected allowed")
	}
}

func TestAllowIsPerActor(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	if !l.Allow("alice", now) {
		t.Fatalf("alice: expected allowed")
	}
	if !l.Allow("bob", now) {
		t.Fatalf("bob: expected allowed independently of alice")
	}
}
