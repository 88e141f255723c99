package auth

import "chat-rooms/errors"

// Session is the acting caller identity, threaded explicitly through every
// service operation. It is never ambient process state.
type Session struct {
	User string
}

// Authenticate checks that the user an operation claims to act for is the
// session's authenticated user.
func Authenticate(s Session, user string) error {
	if user == "" || user != s.User {
		return errors.ErrUnauthorized
	}
	return nil
}
