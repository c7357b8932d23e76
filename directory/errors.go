package directory

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrAlreadyFriends    = errors.New("already friends")
	ErrAlreadyMember     = errors.New("already a member")
	ErrInvalid           = errors.New("invalid request")
)
