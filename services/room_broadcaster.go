package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/repositories"
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RoomBroadcaster translates lifecycle changes into realtime events.
// Callers invoke it only after the mutation is durably committed; delivery
// failures are logged and never propagate back to the request.
type RoomBroadcaster struct {
	bus      contract.RealtimeBus
	messages repositories.IMessageRepository
	log      *slog.Logger
}

func NewRoomBroadcaster(bus contract.RealtimeBus, messages repositories.IMessageRepository, log *slog.Logger) RoomBroadcaster {
	return RoomBroadcaster{bus: bus, messages: messages, log: log}
}

// OnCreate publishes the enriched view to each participant individually,
// so delivery can be scoped per user topic.
func (b RoomBroadcaster) OnCreate(ctx context.Context, view domain.RoomView) {
	audience := append([]string{view.Owner}, view.Users...)
	for _, user := range audience {
		if err := b.bus.PublishToUser(ctx, user, event.RoomCreated{View: view}); err != nil {
			b.log.Warn("Creation event lost", "room", view.ID, "user", user, "error", err)
		}
	}
}

// OnUpdate publishes one room:update event carrying only the changed
// fields. A last_message change is resolved to the full message payload; a
// membership change carries a full member refresh, so subscribers never
// reconcile partial deltas. An empty diff publishes nothing.
func (b RoomBroadcaster) OnUpdate(ctx context.Context, room domain.Room, diff domain.RoomDiff) {
	if diff.IsEmpty() {
		return
	}

	data := make(map[string]any, len(diff.Changed)+1)
	for _, change := range diff.Changed {
		value := change.New
		if change.Field == domain.FieldLastMessage {
			value = b.resolveMessage(change.New)
		}
		data[change.Field] = value
	}
	if diff.MembersAdded || diff.MembersRemoved {
		data[domain.FieldUsers] = room.MemberUsers()
	}

	e := event.RoomUpdated{RoomID: room.ID, Data: data}
	if err := b.bus.PublishToRoom(ctx, room.ID, e); err != nil {
		b.log.Warn("Update event lost", "room", room.ID, "error", err)
	}
}

func (b RoomBroadcaster) resolveMessage(ref any) any {
	id, ok := ref.(*uuid.UUID)
	if !ok || id == nil {
		return nil
	}
	message, err := b.messages.GetMessage(*id)
	if err != nil {
		b.log.Warn("Last message lookup failed", "message", id, "error", err)
		return nil
	}
	return message
}
