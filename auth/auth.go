// Package auth holds the registration and login HTTP handlers. There
// is no session layer: login returns the user record and clients carry
// the user id on subsequent requests.
package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flatchat/directory"
)

type Handlers struct {
	Dir *directory.Directory
}

type publicUser struct {
	ID       string                    `json:"id"`
	Username string                    `json:"username"`
	Friends  []directory.FriendSummary `json:"friends"`
}

func toPublic(u directory.User) publicUser {
	friends := u.Friends
	if friends == nil {
		friends = []directory.FriendSummary{}
	}
	return publicUser{ID: u.ID, Username: u.Username, Friends: friends}
}

func (h *Handlers) HandleRegister(c *gin.Context) {
	var json struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request data"})
		return
	}
	if json.Username == "" || json.Password == "" {
		c.JSON(400, gin.H{"error": "Username and password are required"})
		return
	}

	user := directory.User{
		ID:       uuid.NewString(),
		Username: json.Username,
		Password: json.Password,
		Friends:  []directory.FriendSummary{},
	}
	if err := h.Dir.AddUser(user); err != nil {
		if errors.Is(err, directory.ErrDuplicateUsername) {
			c.JSON(400, gin.H{"error": "Username already exists"})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to save user"})
		return
	}

	c.JSON(201, gin.H{"user": toPublic(user)})
}

func (h *Handlers) HandleLogin(c *gin.Context) {
	var json struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BindJSON(&json); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request data"})
		return
	}

	user, ok := h.Dir.FindByUsername(json.Username)
	if !ok {
		c.JSON(400, gin.H{"error": "User not found by username"})
		return
	}
	if user.Password != json.Password {
		c.JSON(400, gin.H{"error": "Incorrect password"})
		return
	}

	c.JSON(200, gin.H{"user": toPublic(user)})
}
