package chat

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// WSMessage is the envelope for every event on the wire, in both
// directions.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Message is one persisted chat entry. Type selects which payload
// fields are meaningful: "text" carries Text, "location" carries URL,
// "voice" carries Audio and Duration.
type Message struct {
	Type           string  `json:"type"`
	Sender         string  `json:"sender"`
	SenderUsername string  `json:"senderUsername"`
	Room           string  `json:"room"`
	Timestamp      int64   `json:"timestamp,omitempty"`
	MessageID      string  `json:"messageId,omitempty"`
	Text           string  `json:"text,omitempty"`
	URL            string  `json:"url,omitempty"`
	Audio          string  `json:"audio,omitempty"`
	Duration       float64 `json:"duration,omitempty"`
}

// Ack confirms (or denies) a submission back to the sender once the
// message has been persisted and fanned out.
type Ack struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type RegisterUserData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type JoinRoomData struct {
	Room     string `json:"room"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type JoinGroupRoomData struct {
	GroupID  string `json:"groupId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type LeaveRoomData struct {
	Room string `json:"room"`
}

type ChatMessageData struct {
	Text           string `json:"text"`
	Sender         string `json:"sender"`
	SenderUsername string `json:"senderUsername"`
	Room           string `json:"room"`
	Timestamp      int64  `json:"timestamp,omitempty"`
	MessageID      string `json:"messageId,omitempty"`
}

type SendLocationData struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Sender         string  `json:"sender"`
	SenderUsername string  `json:"senderUsername"`
	Room           string  `json:"room"`
	Timestamp      int64   `json:"timestamp,omitempty"`
	MessageID      string  `json:"messageId,omitempty"`
}

type VoiceMessageData struct {
	Audio          string  `json:"audio"`
	Duration       float64 `json:"duration"`
	Sender         string  `json:"sender"`
	SenderUsername string  `json:"senderUsername"`
	Room           string  `json:"room,omitempty"`
	GroupID        string  `json:"groupId,omitempty"`
	Timestamp      int64   `json:"timestamp,omitempty"`
	MessageID      string  `json:"messageId,omitempty"`
}

type ChatHistoryData struct {
	Room    string    `json:"room"`
	History []Message `json:"history"`
}

type ChatError struct {
	Content string `json:"error"`
}

// Client is one live websocket connection. Outbound events go through
// SendQueue so the read loop never blocks on a slow peer.
type Client struct {
	Conn      *websocket.Conn
	UserID    string
	Username  string
	SendQueue chan WSMessage
	Done      chan struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:      conn,
		SendQueue: make(chan WSMessage, 64),
		Done:      make(chan struct{}),
	}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		select {
		case msg, ok := <-c.SendQueue:
			if !ok {
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				log.Println("WritePump error:", err)
				return
			}
		case <-c.Done:
			return
		}
	}
}

// safeSend queues msg for the client, dropping it if the queue is full
// rather than blocking the caller.
func safeSend(client *Client, msg WSMessage) {
	if client == nil {
		return
	}
	select {
	case client.SendQueue <- msg:
	default:
		log.Printf("safeSend: send queue full for user %q, dropping %s", client.UserID, msg.Type)
	}
}

// decodeData decodes WSMessage.Data into a typed struct.
func decodeData[T any](raw interface{}) (T, error) {
	var data T
	bytes, err := json.Marshal(raw)
	if err != nil {
		return data, err
	}
	err = json.Unmarshal(bytes, &data)
	return data, err
}
