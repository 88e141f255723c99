// Package server exposes the room operations as NATS request/reply
// endpoints with JSON bodies. Every request carries a session token; the
// acting identity is derived from it and threaded into the service.
package server

import (
	"chat-rooms/auth"
	chaterrors "chat-rooms/errors"
	"chat-rooms/services"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const queueGroup = "room-workers"

// Subjects served by the room server.
const (
	SubjectGet           = "rooms.get"
	SubjectCreate        = "rooms.create"
	SubjectHistory       = "rooms.history"
	SubjectRename        = "rooms.rename"
	SubjectAvatar        = "rooms.avatar"
	SubjectMembersAdd    = "rooms.members.add"
	SubjectMembersRemove = "rooms.members.remove"
)

type RoomServer struct {
	log     *slog.Logger
	nc      *nats.Conn
	service services.IRoomService
	tokens  auth.Tokens
	subs    []*nats.Subscription
}

func NewRoomServer(log *slog.Logger, nc *nats.Conn, service services.IRoomService, tokens auth.Tokens) *RoomServer {
	return &RoomServer{log: log, nc: nc, service: service, tokens: tokens}
}

type errorReply struct {
	Error string `json:"error"`
}

type getRequest struct {
	Token string `json:"token"`
	services.GetRoomsRequest
}

type createRequest struct {
	Token string `json:"token"`
	services.CreateRoomRequest
}

type historyRequest struct {
	Token string `json:"token"`
	services.HistoryRequest
}

type renameRequest struct {
	Token string `json:"token"`
	services.RenameRequest
}

type avatarRequest struct {
	Token string `json:"token"`
	services.SetAvatarRequest
}

type membersRequest struct {
	Token string `json:"token"`
	services.MembersRequest
}

// Start subscribes every endpoint through a queue group so the server can
// be scaled horizontally.
func (s *RoomServer) Start(ctx context.Context) error {
	endpoints := map[string]nats.MsgHandler{
		SubjectGet:           func(msg *nats.Msg) { s.handleGet(ctx, msg) },
		SubjectCreate:        func(msg *nats.Msg) { s.handleCreate(ctx, msg) },
		SubjectHistory:       func(msg *nats.Msg) { s.handleHistory(ctx, msg) },
		SubjectRename:        func(msg *nats.Msg) { s.handleRename(ctx, msg) },
		SubjectAvatar:        func(msg *nats.Msg) { s.handleAvatar(ctx, msg) },
		SubjectMembersAdd:    func(msg *nats.Msg) { s.handleMembersAdd(ctx, msg) },
		SubjectMembersRemove: func(msg *nats.Msg) { s.handleMembersRemove(ctx, msg) },
	}

	for subject, handler := range endpoints {
		sub, err := s.nc.QueueSubscribe(subject, queueGroup, handler)
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}
	s.log.Info("Room server listening", "endpoints", len(endpoints))
	return nil
}

// Stop drains the subscriptions so in-flight requests finish.
func (s *RoomServer) Stop() {
	for _, sub := range s.subs {
		_ = sub.Drain()
	}
}

func (s *RoomServer) handleGet(ctx context.Context, msg *nats.Msg) {
	var req getRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	views, err := s.service.Get(ctx, session, req.GetRoomsRequest)
	s.reply(msg, views, err)
}

func (s *RoomServer) handleCreate(ctx context.Context, msg *nats.Msg) {
	var req createRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	view, err := s.service.Create(ctx, session, req.CreateRoomRequest)
	s.reply(msg, view, err)
}

func (s *RoomServer) handleHistory(ctx context.Context, msg *nats.Msg) {
	var req historyRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	messages, err := s.service.History(ctx, session, req.HistoryRequest)
	s.reply(msg, messages, err)
}

func (s *RoomServer) handleRename(ctx context.Context, msg *nats.Msg) {
	var req renameRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	s.reply(msg, okReply(), s.service.Rename(ctx, session, req.RenameRequest))
}

func (s *RoomServer) handleAvatar(ctx context.Context, msg *nats.Msg) {
	var req avatarRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	s.reply(msg, okReply(), s.service.SetAvatar(ctx, session, req.SetAvatarRequest))
}

func (s *RoomServer) handleMembersAdd(ctx context.Context, msg *nats.Msg) {
	var req membersRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	s.reply(msg, okReply(), s.service.AddMembers(ctx, session, req.MembersRequest))
}

func (s *RoomServer) handleMembersRemove(ctx context.Context, msg *nats.Msg) {
	var req membersRequest
	session, ok := s.decode(msg, &req, func() string { return req.Token })
	if !ok {
		return
	}
	s.reply(msg, okReply(), s.service.RemoveMembers(ctx, session, req.MembersRequest))
}

func okReply() map[string]bool { return map[string]bool{"ok": true} }

// decode unmarshals the request and turns its token into a session.
func (s *RoomServer) decode(msg *nats.Msg, req any, token func() string) (auth.Session, bool) {
	if err := json.Unmarshal(msg.Data, req); err != nil {
		s.respondError(msg, chaterrors.ErrInvalidRequest)
		return auth.Session{}, false
	}
	session, err := s.tokens.Validate(token())
	if err != nil {
		s.respondError(msg, chaterrors.ErrUnauthorized)
		return auth.Session{}, false
	}
	return session, true
}

func (s *RoomServer) reply(msg *nats.Msg, payload any, err error) {
	if err != nil {
		s.respondError(msg, err)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.respondError(msg, err)
		return
	}
	_ = msg.Respond(data)
}

func (s *RoomServer) respondError(msg *nats.Msg, err error) {
	s.log.Debug("Request failed", "subject", msg.Subject, "error", err)
	data, _ := json.Marshal(errorReply{Error: errorKind(err)})
	_ = msg.Respond(data)
}

// errorKind maps sentinel errors to stable wire identifiers.
func errorKind(err error) string {
	switch {
	case errors.Is(err, chaterrors.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, chaterrors.ErrTooManyMembers):
		return "TooManyMembers"
	case errors.Is(err, chaterrors.ErrDuplicateDirectRoom):
		return "DuplicateDirectRoom"
	case errors.Is(err, chaterrors.ErrGroupNameRequired):
		return "GroupNameRequired"
	case errors.Is(err, chaterrors.ErrNotFound):
		return "NotFound"
	case errors.Is(err, chaterrors.ErrStoreConflict):
		return "StoreConflict"
	case errors.Is(err, chaterrors.ErrInvalidRequest):
		return "InvalidRequest"
	default:
		return "InternalError"
	}
}
