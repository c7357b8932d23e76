// Package social holds the friend, group, profile and history HTTP
// handlers, plus the server→client pushes that fire on relationship
// changes.
package social

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"flatchat/chat"
	"flatchat/directory"
)

type Handlers struct {
	Dir        *directory.Directory
	Hub        *chat.Hub
	Dispatcher *chat.Dispatcher
}

type profile struct {
	ID       string                    `json:"id"`
	Username string                    `json:"username"`
	Friends  []directory.FriendSummary `json:"friends"`
}

func toProfile(u directory.User) profile {
	friends := u.Friends
	if friends == nil {
		friends = []directory.FriendSummary{}
	}
	return profile{ID: u.ID, Username: u.Username, Friends: friends}
}

func (h *Handlers) HandleGetProfile(c *gin.Context) {
	user, ok := h.Dir.FindByID(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	}
	c.JSON(200, gin.H{"user": toProfile(user)})
}

func (h *Handlers) HandleAddFriend(c *gin.Context) {
	var json struct {
		UserID   string `json:"userId"`
		FriendID string `json:"friendId"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request data"})
		return
	}

	user, friend, err := h.Dir.AddFriendship(json.UserID, json.FriendID)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalid):
			c.JSON(400, gin.H{"error": "Cannot friend yourself"})
		case errors.Is(err, directory.ErrNotFound):
			c.JSON(404, gin.H{"error": "User or friend not found"})
		case errors.Is(err, directory.ErrAlreadyFriends):
			c.JSON(400, gin.H{"error": "Already friends"})
		default:
			c.JSON(500, gin.H{"error": "Failed to save friendship"})
		}
		return
	}

	// Both parties learn about the new edge if they are connected.
	h.Hub.PushToUser(user.ID, chat.WSMessage{Type: "friendAdded", Data: toProfile(friend)})
	h.Hub.PushToUser(friend.ID, chat.WSMessage{Type: "friendAdded", Data: toProfile(user)})

	c.JSON(200, gin.H{"user": toProfile(user), "friend": toProfile(friend)})
}

func (h *Handlers) HandleCreateGroup(c *gin.Context) {
	var json struct {
		Name      string   `json:"name"`
		CreatorID string   `json:"creatorId"`
		Members   []string `json:"members"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request data"})
		return
	}

	group, err := h.Dir.CreateGroup(json.Name, json.CreatorID, json.Members)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalid):
			c.JSON(400, gin.H{"error": "Group name and creator are required"})
		case errors.Is(err, directory.ErrNotFound):
			c.JSON(404, gin.H{"error": "Creator not found"})
		default:
			c.JSON(500, gin.H{"error": "Failed to save group"})
		}
		return
	}

	for _, memberID := range group.Members {
		if memberID == group.CreatorID {
			h.Hub.PushToUser(memberID, chat.WSMessage{Type: "groupCreated", Data: group})
		} else {
			h.Hub.PushToUser(memberID, chat.WSMessage{Type: "addedToGroup", Data: group})
		}
	}

	c.JSON(201, gin.H{"group": group})
}

func (h *Handlers) HandleAddMember(c *gin.Context) {
	var json struct {
		UserID string `json:"userId"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request data"})
		return
	}

	group, err := h.Dir.AddMember(c.Param("id"), json.UserID)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrNotFound):
			c.JSON(404, gin.H{"error": "Group or user not found"})
		case errors.Is(err, directory.ErrAlreadyMember):
			c.JSON(400, gin.H{"error": "Already a member"})
		default:
			c.JSON(500, gin.H{"error": "Failed to save group"})
		}
		return
	}

	for _, memberID := range group.Members {
		if memberID == json.UserID {
			h.Hub.PushToUser(memberID, chat.WSMessage{Type: "addedToGroup", Data: group})
		} else {
			h.Hub.PushToUser(memberID, chat.WSMessage{Type: "memberAddedToGroup", Data: group})
		}
	}

	c.JSON(200, gin.H{"group": group})
}

func (h *Handlers) HandleGetUserGroups(c *gin.Context) {
	if _, ok := h.Dir.FindByID(c.Param("id")); !ok {
		c.JSON(404, gin.H{"error": "User not found"})
		return
	}
	groups := h.Dir.UserGroups(c.Param("id"))
	if groups == nil {
		groups = []directory.Group{}
	}
	c.JSON(200, gin.H{"groups": groups})
}

func (h *Handlers) HandleGetHistory(c *gin.Context) {
	room := c.Param("room")
	if !strings.HasPrefix(room, "private_") && !strings.HasPrefix(room, "group_") {
		c.JSON(400, gin.H{"error": "Invalid room identifier"})
		return
	}
	c.JSON(200, gin.H{"room": room, "history": h.Dispatcher.LoadHistory(room)})
}
