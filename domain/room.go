// Package domain contains core concepts of the room system.
// This file defines Room records and membership invariants.
// No storage, transport, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type RoomID string

type RoomType string

const (
	RoomDirect  RoomType = "Direct"
	RoomVisitor RoomType = "Visitor"
	RoomGroup   RoomType = "Group"
)

// IsPaired reports whether the type carries the one-member,
// one-room-per-pair constraint.
func (t RoomType) IsPaired() bool {
	return t == RoomDirect || t == RoomVisitor
}

// Membership links a user to a room. The back-reference to the room is
// informational; the Room record owns the list.
type Membership struct {
	RoomID RoomID `json:"room"`
	User   string `json:"user"`
}

// Room is the persisted chat-room record. ID, Type and Owner are fixed at
// creation; everything else is mutated in place through the repository.
type Room struct {
	ID            RoomID       `json:"id"`
	Type          RoomType     `json:"type"`
	Name          string       `json:"room_name,omitempty"`
	Owner         string       `json:"owner"`
	Members       []Membership `json:"users,omitempty"`
	LastMessageID *uuid.UUID   `json:"last_message,omitempty"`
	CreatedAt     time.Time    `json:"creation"`
	Avatar        string       `json:"avatar,omitempty"`
}

// MemberUsers returns the member user identifiers in stored order.
// The owner is implicit and never part of the list.
func (r Room) MemberUsers() []string {
	return lo.Map(r.Members, func(m Membership, _ int) string { return m.User })
}

func (r Room) HasMember(user string) bool {
	return lo.ContainsBy(r.Members, func(m Membership) bool { return m.User == user })
}

// CanAccess reports whether user is the owner or a member.
func (r Room) CanAccess(user string) bool {
	return r.Owner == user || r.HasMember(user)
}

// Clone returns a deep copy, used as the pre-mutation snapshot on the
// read-modify-diff-write path.
func (r Room) Clone() Room {
	c := r
	c.Members = append([]Membership(nil), r.Members...)
	if r.LastMessageID != nil {
		c.LastMessageID = lo.ToPtr(*r.LastMessageID)
	}
	return c
}

// MemberSet strips exclude (the acting session user, implicitly present as
// owner) from members and collapses duplicates by user identifier, first
// occurrence wins, insertion order preserved.
func MemberSet(members []Membership, exclude string) []Membership {
	kept := lo.Filter(members, func(m Membership, _ int) bool { return m.User != exclude })
	return lo.UniqBy(kept, func(m Membership) string { return m.User })
}

// RoomView is the enriched representation returned to callers and carried
// by creation events. Field presence follows the requested field set.
type RoomView struct {
	ID          RoomID    `json:"id"`
	Type        RoomType  `json:"type,omitempty"`
	Name        string    `json:"room_name,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"creation,omitzero"`
	Avatar      string    `json:"avatar,omitempty"`
	Users       []string  `json:"users,omitempty"`
	LastMessage *Message  `json:"last_message,omitempty"`
}
