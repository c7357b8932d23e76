package chat

import "strings"

// PrivateRoomID derives the room identifier for a private chat. The two
// ids are sorted lexicographically so both participants compute the
// same room regardless of who initiates.
func PrivateRoomID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return "private_" + a + "_" + b
}

// GroupRoomID derives the room identifier for a group chat.
func GroupRoomID(groupID string) string {
	return "group_" + groupID
}

// privateRoomPeer extracts the other participant of a private room.
// Returns false for group rooms or rooms userID is not part of.
func privateRoomPeer(room, userID string) (string, bool) {
	rest, ok := strings.CutPrefix(room, "private_")
	if !ok {
		return "", false
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return "", false
	}
	switch userID {
	case parts[0]:
		return parts[1], true
	case parts[1]:
		return parts[0], true
	}
	return "", false
}
