package chat

import "testing"

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub()
	c1 := NewClient(nil)
	c2 := NewClient(nil)

	hub.Join(c1, "room1")
	hub.Join(c2, "room1")
	hub.Join(c1, "room2")

	if got := len(hub.Subscribers("room1")); got != 2 {
		t.Fatalf("expected 2 subscribers, got %d", got)
	}

	hub.Leave(c1, "room1")
	subs := hub.Subscribers("room1")
	if len(subs) != 1 || subs[0] != c2 {
		t.Fatalf("expected only c2 subscribed, got %d", len(subs))
	}
	// c1 is still in room2.
	if got := len(hub.Subscribers("room2")); got != 1 {
		t.Fatalf("expected c1 still in room2, got %d", got)
	}
}

func TestHubLeaveAllReportsRooms(t *testing.T) {
	hub := NewHub()
	c := NewClient(nil)
	hub.Join(c, "room1")
	hub.Join(c, "room2")

	left := hub.LeaveAll(c)
	if len(left) != 2 {
		t.Fatalf("expected 2 rooms left, got %v", left)
	}
	if len(hub.Subscribers("room1")) != 0 || len(hub.Subscribers("room2")) != 0 {
		t.Fatalf("client still subscribed after LeaveAll")
	}
}

func TestRegistryLastWriterWins(t *testing.T) {
	hub := NewHub()
	old := NewClient(nil)
	newer := NewClient(nil)

	hub.Upsert("u1", old)
	hub.Upsert("u1", newer)

	got, ok := hub.ClientByUser("u1")
	if !ok || got != newer {
		t.Fatalf("expected newest connection on file")
	}
}

func TestRemoveIfCurrentIgnoresStaleConnection(t *testing.T) {
	hub := NewHub()
	old := NewClient(nil)
	newer := NewClient(nil)

	hub.Upsert("u1", old)
	hub.Upsert("u1", newer)

	// The old session disconnecting must not evict the new one.
	hub.RemoveIfCurrent("u1", old)
	if got, ok := hub.ClientByUser("u1"); !ok || got != newer {
		t.Fatalf("stale removal evicted current connection")
	}

	hub.RemoveIfCurrent("u1", newer)
	if _, ok := hub.ClientByUser("u1"); ok {
		t.Fatalf("expected registry entry removed")
	}
}

func TestLeaveKeepsRegistryEntry(t *testing.T) {
	hub := NewHub()
	c := NewClient(nil)
	hub.Upsert("u1", c)
	hub.Join(c, "room1")

	hub.Leave(c, "room1")
	if _, ok := hub.ClientByUser("u1"); !ok {
		t.Fatalf("leaving a room must not drop the registry entry")
	}
}

func TestPushToUser(t *testing.T) {
	hub := NewHub()
	c := NewClient(nil)
	hub.Upsert("u1", c)

	if !hub.PushToUser("u1", WSMessage{Type: "friendAdded"}) {
		t.Fatalf("expected push to registered user to succeed")
	}
	select {
	case msg := <-c.SendQueue:
		if msg.Type != "friendAdded" {
			t.Fatalf("unexpected event type %s", msg.Type)
		}
	default:
		t.Fatalf("expected event queued")
	}

	if hub.PushToUser("ghost", WSMessage{Type: "friendAdded"}) {
		t.Fatalf("expected push to unknown user to report false")
	}
}
