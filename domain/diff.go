package domain

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Wire names of the diffable scalar fields, matching the stored record.
const (
	FieldName        = "room_name"
	FieldAvatar      = "avatar"
	FieldLastMessage = "last_message"
	FieldUsers       = "users"
)

type FieldChange struct {
	Field string
	Old   any
	New   any
}

// RoomDiff is the field-level delta between a pre-mutation snapshot and
// the saved state. Membership changes are tracked as booleans only; the
// broadcast always carries a full member refresh, never a delta list.
type RoomDiff struct {
	Changed        []FieldChange
	MembersAdded   bool
	MembersRemoved bool
}

func (d RoomDiff) IsEmpty() bool {
	return len(d.Changed) == 0 && !d.MembersAdded && !d.MembersRemoved
}

// DiffRooms compares every mutable scalar field of before and after under
// value equality, and the membership sets by user identifier. Immutable
// fields (id, type, owner, creation) are never part of a diff.
func DiffRooms(before, after Room) RoomDiff {
	var diff RoomDiff

	if before.Name != after.Name {
		diff.Changed = append(diff.Changed, FieldChange{FieldName, before.Name, after.Name})
	}
	if before.Avatar != after.Avatar {
		diff.Changed = append(diff.Changed, FieldChange{FieldAvatar, before.Avatar, after.Avatar})
	}
	if !messageIDEqual(before.LastMessageID, after.LastMessageID) {
		diff.Changed = append(diff.Changed, FieldChange{FieldLastMessage, before.LastMessageID, after.LastMessageID})
	}

	beforeUsers := before.MemberUsers()
	afterUsers := after.MemberUsers()
	added, removed := lo.Difference(afterUsers, beforeUsers)
	diff.MembersAdded = len(added) > 0
	diff.MembersRemoved = len(removed) > 0

	return diff
}

func messageIDEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
