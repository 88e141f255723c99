package services

import (
	"chat-rooms/auth"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/repositories"
	"fmt"
)

// RoomValidator enforces the per-type invariants before a room is
// persisted. It has no side effect beyond the membership normalization it
// applies to a new candidate's member list.
type RoomValidator struct {
	rooms repositories.IRoomRepository
}

func NewRoomValidator(rooms repositories.IRoomRepository) RoomValidator {
	return RoomValidator{rooms: rooms}
}

// Validate runs the rules in order:
//  1. new rooms: strip the acting user, dedupe members (first wins).
//  2. Direct/Visitor rooms carry exactly one member.
//  3. new Direct/Visitor rooms: no existing room between {owner, other},
//     checked in both ownership directions.
//  4. Group rooms carry a non-empty name.
func (v RoomValidator) Validate(room *domain.Room, isNew bool, session auth.Session) error {
	if isNew {
		room.Members = domain.MemberSet(room.Members, session.User)
	}

	if room.Type.IsPaired() {
		if len(room.Members) != 1 {
			return fmt.Errorf("%w: %s room", errors.ErrTooManyMembers, room.Type)
		}

		if isNew {
			other := room.Members[0].User
			exists, err := v.rooms.HasDirectRoom(room.Owner, other)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: with %s", errors.ErrDuplicateDirectRoom, other)
			}
		}
	}

	if room.Type == domain.RoomGroup && room.Name == "" {
		return errors.ErrGroupNameRequired
	}
	return nil
}
