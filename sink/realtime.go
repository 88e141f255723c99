package sink

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	userSubjectPrefix = "chat.user."
	roomSubjectPrefix = "chat.room."
)

// envelope is the wire shape subscribers receive: the event name plus the
// event payload.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// NatsBus implements contract.RealtimeBus on NATS core publish.
// Publishing is fire-and-forget: there is no ack, no retry, and no
// buffering beyond the client's own.
type NatsBus struct {
	nc  *nats.Conn
	log *slog.Logger
}

func NewNatsBus(nc *nats.Conn, log *slog.Logger) NatsBus {
	return NatsBus{nc: nc, log: log}
}

func (b NatsBus) PublishToUser(_ context.Context, user string, e event.DomainEvent) error {
	return b.publish(userSubjectPrefix+user, e)
}

func (b NatsBus) PublishToRoom(_ context.Context, room domain.RoomID, e event.DomainEvent) error {
	return b.publish(roomSubjectPrefix+string(room), e)
}

func (b NatsBus) publish(subject string, e event.DomainEvent) error {
	data, err := json.Marshal(envelope{Event: e.Event(), Data: e.Payload()})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := b.nc.Publish(subject, data); err != nil {
		return err
	}
	b.log.Debug("Event published", "subject", subject, "event", e.Event())
	return nil
}
