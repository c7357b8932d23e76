// Package directory manages user records, friend edges and groups on
// top of the flat JSON store.
package directory

import (
	"flatchat/store"
)

const usersDoc = "users"

type User struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Password string          `json:"password"`
	Friends  []FriendSummary `json:"friends"`
}

// FriendSummary is a denormalized snapshot of the other side of a
// friend edge. It is not re-validated against the current user record.
type FriendSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Preview  string `json:"preview"`
}

const (
	defaultAvatar  = "./assets/avatar.png"
	defaultPreview = "Say hello!"
)

type Directory struct {
	store *store.Store
}

func New(s *store.Store) *Directory {
	return &Directory{store: s}
}

func (d *Directory) FindByID(id string) (User, bool) {
	for _, u := range store.Load[User](d.store, usersDoc) {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// FindByUsername matches exactly, case-sensitive.
func (d *Directory) FindByUsername(username string) (User, bool) {
	for _, u := range store.Load[User](d.store, usersDoc) {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// AllUsers returns every user record. Debugging aid.
func (d *Directory) AllUsers() []User {
	return store.Load[User](d.store, usersDoc)
}

func (d *Directory) AddUser(user User) error {
	if user.ID == "" || user.Username == "" || user.Password == "" {
		return ErrInvalid
	}
	return store.Update(d.store, usersDoc, func(users []User) ([]User, error) {
		for _, u := range users {
			if u.Username == user.Username {
				return nil, ErrDuplicateUsername
			}
		}
		return append(users, user), nil
	})
}

func (d *Directory) UpdateUser(user User) error {
	return store.Update(d.store, usersDoc, func(users []User) ([]User, error) {
		for i := range users {
			if users[i].ID == user.ID {
				users[i] = user
				return users, nil
			}
		}
		return nil, ErrNotFound
	})
}

// AddFriendship appends the reciprocal friend summaries to both users.
// Both records live in the same document and are written in one save,
// so either both sides of the edge land or neither does.
func (d *Directory) AddFriendship(userID, friendID string) (User, User, error) {
	if userID == friendID {
		return User{}, User{}, ErrInvalid
	}

	var user, friend User
	err := store.Update(d.store, usersDoc, func(users []User) ([]User, error) {
		userIdx, friendIdx := -1, -1
		for i := range users {
			if users[i].ID == userID {
				userIdx = i
			}
			if users[i].ID == friendID {
				friendIdx = i
			}
		}
		if userIdx == -1 || friendIdx == -1 {
			return nil, ErrNotFound
		}
		for _, f := range users[userIdx].Friends {
			if f.ID == friendID {
				return nil, ErrAlreadyFriends
			}
		}

		users[userIdx].Friends = append(users[userIdx].Friends, FriendSummary{
			ID:       users[friendIdx].ID,
			Username: users[friendIdx].Username,
			Avatar:   defaultAvatar,
			Preview:  defaultPreview,
		})
		users[friendIdx].Friends = append(users[friendIdx].Friends, FriendSummary{
			ID:       users[userIdx].ID,
			Username: users[userIdx].Username,
			Avatar:   defaultAvatar,
			Preview:  defaultPreview,
		})
		user = users[userIdx]
		friend = users[friendIdx]
		return users, nil
	})
	if err != nil {
		return User{}, User{}, err
	}
	return user, friend, nil
}
