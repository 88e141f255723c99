package services

import (
	"chat-rooms/domain"

	"github.com/google/uuid"
)

// Typed request structs for every public operation. Required/optional
// fields are validated at the boundary; nothing arrives as a loose string
// needing re-parsing.

// Filter narrows a listing by one scalar field. Filters are ANDed.
type Filter struct {
	Field  string   `json:"field" validate:"required,oneof=type owner room_name"`
	Op     string   `json:"op" validate:"required,oneof=eq in"`
	Values []string `json:"values" validate:"required,min=1"`
}

func (f Filter) matches(room domain.Room) bool {
	var value string
	switch f.Field {
	case "type":
		value = string(room.Type)
	case "owner":
		value = room.Owner
	case domain.FieldName:
		value = room.Name
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

type GetRoomsRequest struct {
	User    string   `json:"user" validate:"required"`
	Rooms   []string `json:"rooms,omitempty"`
	Fields  []string `json:"fields,omitempty" validate:"omitempty,dive,oneof=id type room_name creation owner avatar users last_message"`
	Filters []Filter `json:"filters,omitempty" validate:"omitempty,dive"`
}

type CreateRoomRequest struct {
	Type  domain.RoomType `json:"type" validate:"required,oneof=Direct Visitor Group"`
	Owner string          `json:"owner" validate:"required"`
	Users []string        `json:"users,omitempty"`
	Name  string          `json:"name,omitempty"`
}

type HistoryRequest struct {
	Room string `json:"room" validate:"required"`
	User string `json:"user,omitempty"`
	// Limit falls back to the configured page size when zero.
	Limit int `json:"limit,omitempty" validate:"gte=0"`
}

type RenameRequest struct {
	User string `json:"user" validate:"required"`
	Room string `json:"room" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type SetAvatarRequest struct {
	User   string `json:"user" validate:"required"`
	Room   string `json:"room" validate:"required"`
	Avatar string `json:"avatar,omitempty"`
}

type MembersRequest struct {
	User  string   `json:"user" validate:"required"`
	Room  string   `json:"room" validate:"required"`
	Users []string `json:"users" validate:"required,min=1"`
}

type SetLastMessageRequest struct {
	User    string    `json:"user" validate:"required"`
	Room    string    `json:"room" validate:"required"`
	Message uuid.UUID `json:"message" validate:"required"`
}
