package chat

import "testing"

func TestPrivateRoomIDIsCommutative(t *testing.T) {
	if PrivateRoomID("u1", "u2") != PrivateRoomID("u2", "u1") {
		t.Fatalf("room id depends on initiator")
	}
	if PrivateRoomID("u1", "u2") != "private_u1_u2" {
		t.Fatalf("unexpected room id: %s", PrivateRoomID("u1", "u2"))
	}
}

func TestGroupRoomID(t *testing.T) {
	if GroupRoomID("g1") != "group_g1" {
		t.Fatalf("unexpected group room id: %s", GroupRoomID("g1"))
	}
}

func TestPrivateRoomPeer(t *testing.T) {
	room := PrivateRoomID("alice-id", "bob-id")

	peer, ok := privateRoomPeer(room, "alice-id")
	if !ok || peer != "bob-id" {
		t.Fatalf("expected bob-id, got %q ok=%v", peer, ok)
	}
	peer, ok = privateRoomPeer(room, "bob-id")
	if !ok || peer != "alice-id" {
		t.Fatalf("expected alice-id, got %q ok=%v", peer, ok)
	}
	if _, ok := privateRoomPeer(room, "carol-id"); ok {
		t.Fatalf("expected miss for non-participant")
	}
	if _, ok := privateRoomPeer(GroupRoomID("g1"), "alice-id"); ok {
		t.Fatalf("expected miss for group room")
	}
}
