package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func directRoom(id domain.RoomID, owner, other string) domain.Room {
	return domain.Room{
		ID:        id,
		Type:      domain.RoomDirect,
		Owner:     owner,
		Members:   []domain.Membership{{RoomID: id, User: other}},
		CreatedAt: time.Now().UTC(),
	}
}

func Test_CreateRoom_And_GetRoom(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t), slog.Default())

	room := directRoom("room-1", "alice", "bob")
	req.NoError(repository.CreateRoom(room))

	fetched, err := repository.GetRoom("room-1")
	req.NoError(err)
	req.Equal(room.Owner, fetched.Owner)
	req.Equal(room.Members, fetched.Members)
	req.Equal(domain.RoomDirect, fetched.Type)
}

func Test_GetRoom_NotFound(t *testing.T) {
	repository := NewRoomRepository(openDB(t), slog.Default())

	_, err := repository.GetRoom("missing")

	require.ErrorIs(t, err, errors.ErrNotFound)
}

func Test_CreateRoom_PairBackstop(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t), slog.Default())

	req.NoError(repository.CreateRoom(directRoom("room-1", "alice", "bob")))

	// Same pair, either ownership direction, loses against the pair key.
	err := repository.CreateRoom(directRoom("room-2", "alice", "bob"))
	req.ErrorIs(err, errors.ErrStoreConflict)

	err = repository.CreateRoom(directRoom("room-3", "bob", "alice"))
	req.ErrorIs(err, errors.ErrStoreConflict)
}

func Test_HasDirectRoom_Bidirectional(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t), slog.Default())

	req.NoError(repository.CreateRoom(directRoom("room-1", "alice", "bob")))

	exists, err := repository.HasDirectRoom("alice", "bob")
	req.NoError(err)
	req.True(exists)

	exists, err = repository.HasDirectRoom("bob", "alice")
	req.NoError(err)
	req.True(exists)

	exists, err = repository.HasDirectRoom("alice", "carol")
	req.NoError(err)
	req.False(exists)
}

func Test_RoomsForUser_OwnerAndMemberSides(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t), slog.Default())

	req.NoError(repository.CreateRoom(directRoom("room-1", "alice", "bob")))
	req.NoError(repository.CreateRoom(domain.Room{
		ID:      "room-2",
		Type:    domain.RoomGroup,
		Name:    "Team",
		Owner:   "carol",
		Members: []domain.Membership{{RoomID: "room-2", User: "alice"}},
	}))
	req.NoError(repository.CreateRoom(directRoom("room-3", "carol", "dave")))

	rooms, err := repository.RoomsForUser("alice")
	req.NoError(err)
	req.Len(rooms, 2)
	req.Equal(domain.RoomID("room-1"), rooms[0].ID)
	req.Equal(domain.RoomID("room-2"), rooms[1].ID)

	rooms, err = repository.RoomsForUser("dave")
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal(domain.RoomID("room-3"), rooms[0].ID)
}

func Test_SaveRoom_ReconcilesMemberIndex(t *testing.T) {
	req := require.New(t)
	repository := NewRoomRepository(openDB(t), slog.Default())

	room := domain.Room{
		ID:      "room-1",
		Type:    domain.RoomGroup,
		Name:    "Team",
		Owner:   "alice",
		Members: []domain.Membership{{RoomID: "room-1", User: "bob"}},
	}
	req.NoError(repository.CreateRoom(room))

	room.Members = []domain.Membership{{RoomID: "room-1", User: "carol"}}
	req.NoError(repository.SaveRoom(room))

	rooms, err := repository.RoomsForUser("bob")
	req.NoError(err)
	req.Empty(rooms)

	rooms, err = repository.RoomsForUser("carol")
	req.NoError(err)
	req.Len(rooms, 1)
}

func Test_SaveRoom_MissingRecord(t *testing.T) {
	repository := NewRoomRepository(openDB(t), slog.Default())

	err := repository.SaveRoom(domain.Room{ID: "missing", Type: domain.RoomGroup, Name: "x"})

	require.ErrorIs(t, err, errors.ErrNotFound)
}
