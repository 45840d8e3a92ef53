package chat

import "testing"

func TestRoomKeyCommutative(t *testing.T) {
	pairs := [][2]string{
		{"1", "2"},
		{"2", "1"},
		{"alice", "bob"},
		{"42", "7"},
	}
	for _, p := range pairs {
		if RoomKey(p[0], p[1]) != RoomKey(p[1], p[0]) {
			t.Fatalf("RoomKey(%q, %q) != RoomKey(%q, %q)", p[0], p[1], p[1], p[0])
		}
	}
}

func TestRoomKeyOrdering(t *testing.T) {
	if got := RoomKey("2", "1"); got != "1:2" {
		t.Fatalf("expected \"1:2\", got %q", got)
	}
	if got := RoomKey("bob", "alice"); got != "alice:bob" {
		t.Fatalf("expected \"alice:bob\", got %q", got)
	}
}

func TestRoomKeyLexicographicNotNumeric(t *testing.T) {
	// IDs sort as strings: "10" comes before "9".
	if got := RoomKey("9", "10"); got != "10:9" {
		t.Fatalf("expected \"10:9\", got %q", got)
	}
}

func TestRoomKeySelf(t *testing.T) {
	if got := RoomKey("7", "7"); got != "7:7" {
		t.Fatalf("expected \"7:7\", got %q", got)
	}
}
