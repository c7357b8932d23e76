package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"flatchat/directory"
	"flatchat/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server owns the chat core: the hub, the dispatcher and the identity
// directory. Handlers receive it explicitly instead of reaching for
// globals.
type Server struct {
	Hub        *Hub
	Dispatcher *Dispatcher
	Directory  *directory.Directory
}

func NewServer(dir *directory.Directory, st *store.Store, historyLimit int) *Server {
	hub := NewHub()
	return &Server{
		Hub:        hub,
		Dispatcher: NewDispatcher(st, hub, historyLimit),
		Directory:  dir,
	}
}

// HandleSocket upgrades the connection and runs its read loop. Each
// connection starts Unregistered; a registerUser or join event binds it
// to a user identity.
func (s *Server) HandleSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	conn.SetReadLimit(256 * 1024)

	client := NewClient(conn)
	go client.WritePump()

	for {
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(msgBytes, &wsMsg); err != nil {
			log.Println("Invalid message format:", err)
			continue
		}

		s.dispatchEvent(client, wsMsg)
	}

	s.cleanupClient(client)
}

func (s *Server) dispatchEvent(client *Client, wsMsg WSMessage) {
	switch wsMsg.Type {
	case "registerUser":
		s.handleRegisterUser(client, &wsMsg)
	case "joinRoom":
		s.handleJoinRoom(client, &wsMsg)
	case "joinGroupRoom":
		s.handleJoinGroupRoom(client, &wsMsg)
	case "leaveRoom":
		s.handleLeaveRoom(client, &wsMsg)
	case "chatMessage":
		s.handleChatMessage(client, &wsMsg)
	case "sendLocation":
		s.handleSendLocation(client, &wsMsg)
	case "voiceMessage":
		s.handleVoiceMessage(client, &wsMsg)
	case "groupVoiceMessage":
		s.handleGroupVoiceMessage(client, &wsMsg)
	default:
		log.Println("Unknown message type:", wsMsg.Type)
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Unknown websocket message type"}})
	}
}

// cleanupClient runs once the read loop ends: drop every room
// subscription, clear the registry entry if it is still ours, and let
// each room know the user is gone.
func (s *Server) cleanupClient(client *Client) {
	rooms := s.Hub.LeaveAll(client)
	s.Hub.RemoveIfCurrent(client.UserID, client)

	if client.Username != "" {
		for _, room := range rooms {
			s.broadcastSystemNotice(room, client.Username+" has left")
		}
	}

	// Done stops the WritePump; the queue itself is left open so an
	// in-flight broadcast that snapshotted this client before LeaveAll
	// can still enqueue harmlessly.
	close(client.Done)
}

// broadcastSystemNotice fans a transient presence notice out to a
// room's current subscribers. Notices are not persisted to history.
func (s *Server) broadcastSystemNotice(room, text string) {
	event := WSMessage{
		Type: "chatMessage",
		Data: Message{
			Type:           "text",
			Sender:         "system",
			SenderUsername: "System",
			Room:           room,
			Timestamp:      time.Now().UnixMilli(),
			Text:           text,
		},
	}
	for _, subscriber := range s.Hub.Subscribers(room) {
		safeSend(subscriber, event)
	}
}
