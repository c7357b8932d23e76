package chat

import (
	"errors"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"flatchat/store"
)

// DefaultHistoryLimit bounds per-room history; the oldest entries are
// evicted first.
const DefaultHistoryLimit = 1000

var errDuplicateMessage = errors.New("duplicate message")

// Dispatcher validates, timestamps, persists and fans out messages.
// Submissions to the same room are persisted and broadcast in arrival
// order; no ordering holds across rooms.
type Dispatcher struct {
	store        *store.Store
	hub          *Hub
	historyLimit int

	mu      sync.Mutex
	roomMus map[string]*sync.Mutex
}

func NewDispatcher(s *store.Store, hub *Hub, historyLimit int) *Dispatcher {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Dispatcher{
		store:        s,
		hub:          hub,
		historyLimit: historyLimit,
		roomMus:      make(map[string]*sync.Mutex),
	}
}

func historyDoc(room string) string {
	return path.Join("chatHistory", room)
}

func (d *Dispatcher) roomLock(room string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.roomMus[room]
	if !ok {
		lock = &sync.Mutex{}
		d.roomMus[room] = lock
	}
	return lock
}

// Submit persists a message to the room's history and broadcasts it to
// every current subscriber, the sender included. If directTo names a
// user, the message is additionally pushed to that user's registered
// connection; that delivery is redundant with the broadcast and clients
// deduplicate by messageId.
//
// A message resubmitted with an already-persisted messageId is
// acknowledged as success without a second history entry or broadcast.
func (d *Dispatcher) Submit(msg Message, room string, directTo string) Ack {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	// Clients should supply a stable messageId; without one a retry is
	// indistinguishable from a new message.
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	msg.Room = room

	lock := d.roomLock(room)
	lock.Lock()
	defer lock.Unlock()

	err := store.Update(d.store, historyDoc(room), func(history []Message) ([]Message, error) {
		for _, m := range history {
			if m.MessageID == msg.MessageID {
				return nil, errDuplicateMessage
			}
		}
		history = append(history, msg)
		if len(history) > d.historyLimit {
			history = history[len(history)-d.historyLimit:]
		}
		return history, nil
	})
	if errors.Is(err, errDuplicateMessage) {
		return Ack{Success: true, MessageID: msg.MessageID}
	}
	if err != nil {
		return Ack{Success: false, MessageID: msg.MessageID, Error: "failed to save message"}
	}

	event := WSMessage{Type: eventTypeFor(msg), Data: msg}
	for _, client := range d.hub.Subscribers(room) {
		safeSend(client, event)
	}
	if directTo != "" {
		d.hub.PushToUser(directTo, event)
	}

	return Ack{Success: true, MessageID: msg.MessageID}
}

func eventTypeFor(msg Message) string {
	switch msg.Type {
	case "location":
		return "locationMessage"
	case "voice":
		return "voiceMessage"
	default:
		return "chatMessage"
	}
}

// LoadHistory returns the room's persisted messages sorted ascending by
// timestamp, ties kept in insertion order.
func (d *Dispatcher) LoadHistory(room string) []Message {
	history := store.Load[Message](d.store, historyDoc(room))
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp < history[j].Timestamp
	})
	return history
}
