package errors

import "fmt"

var (
	ErrUnauthorized        = fmt.Errorf("sorry, you're not authorized")
	ErrTooManyMembers      = fmt.Errorf("room must have exactly one member")
	ErrDuplicateDirectRoom = fmt.Errorf("direct room already exists")
	ErrGroupNameRequired   = fmt.Errorf("group name cannot be empty")
	ErrNotFound            = fmt.Errorf("not found")
	ErrStoreConflict       = fmt.Errorf("store conflict")
	ErrInvalidRequest      = fmt.Errorf("invalid request")
	ErrInvalidToken        = fmt.Errorf("invalid or expired token")
)
