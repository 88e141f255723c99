// Package domain contains core concepts of the room system.
// Messages are owned by the chat-message subsystem; rooms only hold a
// reference to the most recent one and resolve it through lookup.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the payload resolved from a lastMessageID reference.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Room    RoomID    `json:"room"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}
