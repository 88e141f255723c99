//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"context"
)

// RealtimeBus is the send-to-topic primitive. Delivery is fire-and-forget:
// callers publish only after their mutation is durably committed, and a
// delivery failure never fails the originating request.
type RealtimeBus interface {
	// PublishToUser addresses a single recipient's topic.
	PublishToUser(ctx context.Context, user string, e event.DomainEvent) error
	// PublishToRoom addresses the room topic, reaching every current
	// member plus the owner.
	PublishToRoom(ctx context.Context, room domain.RoomID, e event.DomainEvent) error
}
