//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"chat-rooms/auth"
	"chat-rooms/domain"
	chaterrors "chat-rooms/errors"
	"chat-rooms/repositories"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultHistoryLimit is the history page size when the caller gives none.
const DefaultHistoryLimit = 20

// defaultFields is the scalar set returned when no field list is given.
var defaultFields = []string{"id", "type", domain.FieldName, "creation", "owner", "avatar"}

type IRoomService interface {
	Get(ctx context.Context, session auth.Session, req GetRoomsRequest) ([]domain.RoomView, error)
	Create(ctx context.Context, session auth.Session, req CreateRoomRequest) (domain.RoomView, error)
	History(ctx context.Context, session auth.Session, req HistoryRequest) ([]domain.Message, error)
	Rename(ctx context.Context, session auth.Session, req RenameRequest) error
	SetAvatar(ctx context.Context, session auth.Session, req SetAvatarRequest) error
	AddMembers(ctx context.Context, session auth.Session, req MembersRequest) error
	RemoveMembers(ctx context.Context, session auth.Session, req MembersRequest) error
	SetLastMessage(ctx context.Context, session auth.Session, req SetLastMessageRequest) error
}

type RoomService struct {
	rooms         repositories.IRoomRepository
	messages      repositories.IMessageRepository
	roomValidator RoomValidator
	broadcaster   RoomBroadcaster
	validate      *validator.Validate
	log           *slog.Logger
	historyLimit  int
}

func NewRoomService(rooms repositories.IRoomRepository, messages repositories.IMessageRepository,
	roomValidator RoomValidator, broadcaster RoomBroadcaster,
	log *slog.Logger, historyLimit int) *RoomService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &RoomService{
		rooms:         rooms,
		messages:      messages,
		roomValidator: roomValidator,
		broadcaster:   broadcaster,
		validate:      validator.New(),
		log:           log,
		historyLimit:  historyLimit,
	}
}

// Get lists the rooms req.User owns or belongs to, intersected with the
// optional id and filter constraints, shaped by the requested field set.
func (s *RoomService) Get(ctx context.Context, session auth.Session, req GetRoomsRequest) ([]domain.RoomView, error) {
	if err := auth.Authenticate(session, req.User); err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	rooms, err := s.rooms.RoomsForUser(req.User)
	if err != nil {
		return nil, err
	}
	if len(req.Rooms) > 0 {
		rooms = lo.Filter(rooms, func(r domain.Room, _ int) bool {
			return lo.Contains(req.Rooms, string(r.ID))
		})
	}
	for _, f := range req.Filters {
		rooms = lo.Filter(rooms, func(r domain.Room, _ int) bool { return f.matches(r) })
	}

	views := make([]domain.RoomView, 0, len(rooms))
	for _, room := range rooms {
		view, err := s.buildView(room, req.Fields)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Create validates and persists a new room, then broadcasts the enriched
// view to the owner and every member.
func (s *RoomService) Create(ctx context.Context, session auth.Session, req CreateRoomRequest) (domain.RoomView, error) {
	if err := auth.Authenticate(session, req.Owner); err != nil {
		return domain.RoomView{}, err
	}
	if err := s.check(req); err != nil {
		return domain.RoomView{}, err
	}

	room := domain.Room{
		ID:        domain.RoomID(uuid.NewString()),
		Type:      req.Type,
		Name:      req.Name,
		Owner:     req.Owner,
		CreatedAt: time.Now().UTC(),
	}
	room.Members = lo.Map(req.Users, func(user string, _ int) domain.Membership {
		return domain.Membership{RoomID: room.ID, User: user}
	})

	if err := s.roomValidator.Validate(&room, true, session); err != nil {
		return domain.RoomView{}, err
	}
	if err := s.rooms.CreateRoom(room); err != nil {
		return domain.RoomView{}, err
	}

	// Re-read through Get so the creation event carries the same enriched
	// shape callers see.
	views, err := s.Get(ctx, session, GetRoomsRequest{User: req.Owner, Rooms: []string{string(room.ID)}})
	if err != nil {
		return domain.RoomView{}, err
	}
	if len(views) != 1 {
		return domain.RoomView{}, fmt.Errorf("%w: room %s after create", chaterrors.ErrNotFound, room.ID)
	}

	s.broadcaster.OnCreate(ctx, views[0])
	return views[0], nil
}

// History delegates to the message subsystem's paged fetch.
func (s *RoomService) History(ctx context.Context, session auth.Session, req HistoryRequest) ([]domain.Message, error) {
	if req.User != "" {
		if err := auth.Authenticate(session, req.User); err != nil {
			return nil, err
		}
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.messages.GetMessages(domain.RoomID(req.Room), limit)
}

func (s *RoomService) Rename(ctx context.Context, session auth.Session, req RenameRequest) error {
	if err := s.authorize(session, req.User, req); err != nil {
		return err
	}
	return s.save(ctx, session, domain.RoomID(req.Room), func(room *domain.Room) error {
		room.Name = req.Name
		return nil
	})
}

func (s *RoomService) SetAvatar(ctx context.Context, session auth.Session, req SetAvatarRequest) error {
	if err := s.authorize(session, req.User, req); err != nil {
		return err
	}
	return s.save(ctx, session, domain.RoomID(req.Room), func(room *domain.Room) error {
		room.Avatar = req.Avatar
		return nil
	})
}

func (s *RoomService) AddMembers(ctx context.Context, session auth.Session, req MembersRequest) error {
	if err := s.authorize(session, req.User, req); err != nil {
		return err
	}
	return s.save(ctx, session, domain.RoomID(req.Room), func(room *domain.Room) error {
		for _, user := range req.Users {
			if user == room.Owner || room.HasMember(user) {
				continue
			}
			room.Members = append(room.Members, domain.Membership{RoomID: room.ID, User: user})
		}
		return nil
	})
}

func (s *RoomService) RemoveMembers(ctx context.Context, session auth.Session, req MembersRequest) error {
	if err := s.authorize(session, req.User, req); err != nil {
		return err
	}
	return s.save(ctx, session, domain.RoomID(req.Room), func(room *domain.Room) error {
		room.Members = lo.Filter(room.Members, func(m domain.Membership, _ int) bool {
			return !lo.Contains(req.Users, m.User)
		})
		return nil
	})
}

// SetLastMessage is the chat-message subsystem's hook: it points the room
// at its most recent message.
func (s *RoomService) SetLastMessage(ctx context.Context, session auth.Session, req SetLastMessageRequest) error {
	if err := s.authorize(session, req.User, req); err != nil {
		return err
	}
	message, err := s.messages.GetMessage(req.Message)
	if err != nil {
		return err
	}
	return s.save(ctx, session, domain.RoomID(req.Room), func(room *domain.Room) error {
		if message.Room != room.ID {
			return fmt.Errorf("%w: message %s not in room %s", chaterrors.ErrNotFound, req.Message, room.ID)
		}
		room.LastMessageID = lo.ToPtr(req.Message)
		return nil
	})
}

// save is the single update path: snapshot the persisted state, apply the
// mutation, re-validate, persist, then diff and broadcast. The caller must
// be a participant of the room.
func (s *RoomService) save(ctx context.Context, session auth.Session, id domain.RoomID, mutate func(*domain.Room) error) error {
	current, err := s.rooms.GetRoom(id)
	if err != nil {
		return err
	}
	if !current.CanAccess(session.User) {
		return chaterrors.ErrUnauthorized
	}

	before := current.Clone()
	after := current
	if err := mutate(&after); err != nil {
		return err
	}
	if err := s.roomValidator.Validate(&after, false, session); err != nil {
		return err
	}
	if err := s.rooms.SaveRoom(after); err != nil {
		return err
	}

	s.broadcaster.OnUpdate(ctx, after, domain.DiffRooms(before, after))
	return nil
}

// buildView shapes a record by the requested field set; an empty set means
// the defaults plus the users and last_message attachments.
func (s *RoomService) buildView(room domain.Room, fields []string) (domain.RoomView, error) {
	scalars := fields
	if len(fields) == 0 {
		scalars = defaultFields
	}

	view := domain.RoomView{ID: room.ID}
	for _, field := range scalars {
		switch field {
		case "type":
			view.Type = room.Type
		case domain.FieldName:
			view.Name = room.Name
		case "owner":
			view.Owner = room.Owner
		case "creation":
			view.CreatedAt = room.CreatedAt
		case "avatar":
			view.Avatar = room.Avatar
		}
	}

	if len(fields) == 0 || lo.Contains(fields, domain.FieldUsers) {
		view.Users = room.MemberUsers()
	}
	if (len(fields) == 0 || lo.Contains(fields, domain.FieldLastMessage)) && room.LastMessageID != nil {
		message, err := s.messages.GetMessage(*room.LastMessageID)
		if err != nil && !errors.Is(err, chaterrors.ErrNotFound) {
			return domain.RoomView{}, err
		}
		if err == nil {
			view.LastMessage = &message
		}
	}
	return view, nil
}

func (s *RoomService) authorize(session auth.Session, user string, req any) error {
	if err := auth.Authenticate(session, user); err != nil {
		return err
	}
	return s.check(req)
}

func (s *RoomService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", chaterrors.ErrInvalidRequest, err)
	}
	return nil
}
