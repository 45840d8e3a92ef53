package chat

import (
	"testing"
	"time"
)

func TestRegistrySetGet(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}

	r.Set("1", Entry{Conn: conn, Username: "Alice", LastSeen: time.Now()})

	entry, ok := r.Get("1")
	if !ok {
		t.Fatal("expected entry for user 1")
	}
	if entry.Username != "Alice" {
		t.Fatalf("expected username Alice, got %q", entry.Username)
	}
	if !r.Online("1") {
		t.Fatal("user 1 should be online")
	}
	if r.Online("2") {
		t.Fatal("user 2 should not be online")
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	r.Set("1", Entry{Conn: first, Username: "Alice"})
	r.Set("1", Entry{Conn: second, Username: "Alice"})

	entry, _ := r.Get("1")
	if entry.Conn != second {
		t.Fatal("newer connection should own the entry")
	}
	if len(r.All()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(r.All()))
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Set("1", Entry{Conn: &fakeConn{}})
	r.Remove("1")
	if r.Online("1") {
		t.Fatal("user 1 should be gone")
	}
}

func TestRegistryRemoveConnOwnership(t *testing.T) {
	r := NewRegistry()
	stale := &fakeConn{}
	fresh := &fakeConn{}

	r.Set("1", Entry{Conn: stale})
	r.Set("1", Entry{Conn: fresh})

	// The stale connection disconnecting must not evict the fresh entry.
	if r.RemoveConn("1", stale) {
		t.Fatal("stale connection should not remove the entry")
	}
	if !r.Online("1") {
		t.Fatal("user 1 should still be online")
	}

	if !r.RemoveConn("1", fresh) {
		t.Fatal("owning connection should remove the entry")
	}
	if r.Online("1") {
		t.Fatal("user 1 should be offline")
	}
}

func TestRegistryRemoveConnMissing(t *testing.T) {
	r := NewRegistry()
	if r.RemoveConn("nobody", &fakeConn{}) {
		t.Fatal("removing an absent user should report false")
	}
}
