//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IRoomRepository interface {
	CreateRoom(room domain.Room) error
	GetRoom(id domain.RoomID) (domain.Room, error)
	SaveRoom(room domain.Room) error
	RoomsForUser(user string) ([]domain.Room, error)
	HasDirectRoom(a, b string) (bool, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) IRoomRepository {
	return &RoomRepository{db: db, log: log}
}

// Key layout:
//
//	room:{id}            -> JSON room record
//	owner:{user}:{id}    -> listing index, owner side
//	member:{user}:{id}   -> listing index, member side
//	pair:{a}:{b}         -> Direct/Visitor uniqueness backstop (a < b)
//
// The pair key is written in the same transaction as the record, so of two
// concurrent creators of the same pair the loser fails with ErrStoreConflict.
func roomKey(id domain.RoomID) []byte { return []byte("room:" + id) }

func ownerKey(user string, id domain.RoomID) []byte {
	return []byte(fmt.Sprintf("owner:%s:%s", user, id))
}

func memberKey(user string, id domain.RoomID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", user, id))
}

func pairKey(a, b string) []byte {
	if b < a {
		a, b = b, a
	}
	return []byte(fmt.Sprintf("pair:%s:%s", a, b))
}

func (r RoomRepository) CreateRoom(room domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(roomKey(room.ID)); err == nil {
			return errors.ErrStoreConflict
		}

		if room.Type.IsPaired() && len(room.Members) == 1 {
			key := pairKey(room.Owner, room.Members[0].User)
			if _, err := txn.Get(key); err == nil {
				return errors.ErrStoreConflict
			}
			if err := txn.Set(key, []byte(room.ID)); err != nil {
				return err
			}
		}

		if err := txn.Set(ownerKey(room.Owner, room.ID), nil); err != nil {
			return err
		}
		for _, m := range room.Members {
			if err := txn.Set(memberKey(m.User, room.ID), nil); err != nil {
				return err
			}
		}
		return txn.Set(roomKey(room.ID), data)
	})
}

func (r RoomRepository) GetRoom(id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		return readRoom(txn, id, &room)
	})
	return room, err
}

// SaveRoom rewrites an existing record and reconciles the member-index
// keys against the previously stored membership list.
func (r RoomRepository) SaveRoom(room domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		var stored domain.Room
		if err := readRoom(txn, room.ID, &stored); err != nil {
			return err
		}

		removed, added := lo.Difference(stored.MemberUsers(), room.MemberUsers())
		for _, user := range removed {
			if err := txn.Delete(memberKey(user, room.ID)); err != nil {
				return err
			}
		}
		for _, user := range added {
			if err := txn.Set(memberKey(user, room.ID), nil); err != nil {
				return err
			}
		}
		return txn.Set(roomKey(room.ID), data)
	})
}

// RoomsForUser lists rooms the user owns or belongs to, ordered by room id.
func (r RoomRepository) RoomsForUser(user string) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		ids := scanIndex(txn, fmt.Sprintf("owner:%s:", user))
		ids = append(ids, scanIndex(txn, fmt.Sprintf("member:%s:", user))...)
		ids = lo.Uniq(ids)
		sort.Strings(ids)

		for _, id := range ids {
			var room domain.Room
			if err := readRoom(txn, domain.RoomID(id), &room); err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	return rooms, err
}

// HasDirectRoom reports whether a Direct/Visitor room exists between the
// unordered pair {a, b}. The key is unordered, so the check covers both
// ownership directions.
func (r RoomRepository) HasDirectRoom(a, b string) (bool, error) {
	exists := false
	err := r.db.View(func(txn *badger.Txn) error {
		switch _, err := txn.Get(pairKey(a, b)); err {
		case nil:
			exists = true
			return nil
		case badger.ErrKeyNotFound:
			return nil
		default:
			return err
		}
	})
	return exists, err
}

func readRoom(txn *badger.Txn, id domain.RoomID, room *domain.Room) error {
	item, err := txn.Get(roomKey(id))
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%w: room %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, room)
	})
}

func scanIndex(txn *badger.Txn, prefix string) []string {
	var ids []string
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	return ids
}
