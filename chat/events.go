package chat

import "fmt"

func (s *Server) handleRegisterUser(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[RegisterUserData](wsMsg.Data)
	if err != nil || data.UserID == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid registerUser data"}})
		return
	}

	client.UserID = data.UserID
	client.Username = data.Username
	s.Hub.Upsert(data.UserID, client)
}

func (s *Server) handleJoinRoom(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[JoinRoomData](wsMsg.Data)
	if err != nil || data.Room == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid joinRoom data"}})
		return
	}

	s.joinRoom(client, data.Room, data.UserID, data.Username)
}

func (s *Server) handleJoinGroupRoom(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[JoinGroupRoomData](wsMsg.Data)
	if err != nil || data.GroupID == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid joinGroupRoom data"}})
		return
	}

	group, ok := s.Directory.FindGroup(data.GroupID)
	if !ok {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Group not found"}})
		return
	}
	member := false
	for _, m := range group.Members {
		if m == data.UserID {
			member = true
			break
		}
	}
	if !member {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Not a member of this group"}})
		return
	}

	s.joinRoom(client, GroupRoomID(group.ID), data.UserID, data.Username)
}

// joinRoom subscribes the connection, records it as the user's active
// one, and replays history to the joining connection only.
func (s *Server) joinRoom(client *Client, room, userID, username string) {
	if userID != "" {
		client.UserID = userID
	}
	if username != "" {
		client.Username = username
	}
	s.Hub.Upsert(client.UserID, client)
	s.Hub.Join(client, room)

	safeSend(client, WSMessage{
		Type: "chatHistory",
		Data: ChatHistoryData{Room: room, History: s.Dispatcher.LoadHistory(room)},
	})

	if client.Username != "" {
		notice := WSMessage{
			Type: "chatMessage",
			Data: Message{
				Type:           "text",
				Sender:         "system",
				SenderUsername: "System",
				Room:           room,
				Text:           client.Username + " has joined",
			},
		}
		for _, subscriber := range s.Hub.Subscribers(room) {
			if subscriber == client {
				continue
			}
			safeSend(subscriber, notice)
		}
	}
}

func (s *Server) handleLeaveRoom(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[LeaveRoomData](wsMsg.Data)
	if err != nil || data.Room == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid leaveRoom data"}})
		return
	}
	s.Hub.Leave(client, data.Room)
}

func (s *Server) handleChatMessage(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[ChatMessageData](wsMsg.Data)
	if err != nil || data.Text == "" || data.Sender == "" || data.Room == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid chatMessage data"}})
		return
	}

	s.submit(client, Message{
		Type:           "text",
		Sender:         data.Sender,
		SenderUsername: data.SenderUsername,
		Timestamp:      data.Timestamp,
		MessageID:      data.MessageID,
		Text:           data.Text,
	}, data.Room)
}

func (s *Server) handleSendLocation(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[SendLocationData](wsMsg.Data)
	if err != nil || data.Sender == "" || data.Room == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid sendLocation data"}})
		return
	}

	s.submit(client, Message{
		Type:           "location",
		Sender:         data.Sender,
		SenderUsername: data.SenderUsername,
		Timestamp:      data.Timestamp,
		MessageID:      data.MessageID,
		URL:            fmt.Sprintf("https://google.com/maps?q=%v,%v", data.Latitude, data.Longitude),
	}, data.Room)
}

func (s *Server) handleVoiceMessage(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[VoiceMessageData](wsMsg.Data)
	if err != nil || data.Audio == "" || data.Sender == "" || data.Room == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid voiceMessage data"}})
		return
	}

	s.submit(client, Message{
		Type:           "voice",
		Sender:         data.Sender,
		SenderUsername: data.SenderUsername,
		Timestamp:      data.Timestamp,
		MessageID:      data.MessageID,
		Audio:          data.Audio,
		Duration:       data.Duration,
	}, data.Room)
}

func (s *Server) handleGroupVoiceMessage(client *Client, wsMsg *WSMessage) {
	data, err := decodeData[VoiceMessageData](wsMsg.Data)
	if err != nil || data.Audio == "" || data.Sender == "" || data.GroupID == "" {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: "Invalid groupVoiceMessage data"}})
		return
	}

	s.submit(client, Message{
		Type:           "voice",
		Sender:         data.Sender,
		SenderUsername: data.SenderUsername,
		Timestamp:      data.Timestamp,
		MessageID:      data.MessageID,
		Audio:          data.Audio,
		Duration:       data.Duration,
	}, GroupRoomID(data.GroupID))
}

// submit runs a message through the dispatcher and acknowledges the
// result to the submitting connection. Private-chat messages are also
// pushed directly to the peer's registered connection; that second
// delivery is redundant with the room broadcast.
func (s *Server) submit(client *Client, msg Message, room string) {
	directTo := ""
	if peer, ok := privateRoomPeer(room, msg.Sender); ok {
		directTo = peer
	}

	ack := s.Dispatcher.Submit(msg, room, directTo)
	safeSend(client, WSMessage{Type: "messageAck", Data: ack})
	if !ack.Success {
		safeSend(client, WSMessage{Type: "error", Data: ChatError{Content: ack.Error}})
	}
}
