package event

import "chat-rooms/domain"

const (
	RoomCreateEvent = "room:create"
	RoomUpdateEvent = "room:update"
)

// DomainEvent is anything the realtime bus can carry to subscribers.
type DomainEvent interface {
	Event() string
	Room() domain.RoomID
	// Payload is the wire body published under the event name.
	Payload() any
}

// RoomCreated is addressed individually to every participant of a new
// room and carries the full enriched room view.
type RoomCreated struct {
	View domain.RoomView
}

func (e RoomCreated) Event() string       { return RoomCreateEvent }
func (e RoomCreated) Room() domain.RoomID { return e.View.ID }
func (e RoomCreated) Payload() any        { return e.View }

// RoomUpdated is published once to the room's topic and carries only the
// fields that changed.
type RoomUpdated struct {
	RoomID domain.RoomID  `json:"room"`
	Data   map[string]any `json:"data"`
}

func (e RoomUpdated) Event() string       { return RoomUpdateEvent }
func (e RoomUpdated) Room() domain.RoomID { return e.RoomID }
func (e RoomUpdated) Payload() any        { return e }
