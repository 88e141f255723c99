package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemberSet_StripsActingUserAndDedupes(t *testing.T) {
	req := require.New(t)
	members := []Membership{
		{User: "bob"},
		{User: "alice"}, // acting user, implicitly the owner
		{User: "carol"},
		{User: "bob"}, // duplicate, first occurrence wins
		{User: "dave"},
	}

	set := MemberSet(members, "alice")

	req.Equal([]Membership{{User: "bob"}, {User: "carol"}, {User: "dave"}}, set)
}

func TestMemberSet_EmptyList(t *testing.T) {
	require.Empty(t, MemberSet(nil, "alice"))
}

func TestRoom_Clone_IsIndependent(t *testing.T) {
	req := require.New(t)
	id := uuid.New()
	room := Room{
		ID:            "r1",
		Type:          RoomGroup,
		Name:          "Team",
		Owner:         "alice",
		Members:       []Membership{{RoomID: "r1", User: "bob"}},
		LastMessageID: &id,
		CreatedAt:     time.Now().UTC(),
	}

	snapshot := room.Clone()
	room.Members[0].User = "mallory"
	*room.LastMessageID = uuid.New()

	req.Equal("bob", snapshot.Members[0].User)
	req.Equal(id, *snapshot.LastMessageID)
}

func TestRoom_CanAccess(t *testing.T) {
	req := require.New(t)
	room := Room{Owner: "alice", Members: []Membership{{User: "bob"}}}

	req.True(room.CanAccess("alice"))
	req.True(room.CanAccess("bob"))
	req.False(room.CanAccess("mallory"))
}

func TestRoomType_IsPaired(t *testing.T) {
	req := require.New(t)
	req.True(RoomDirect.IsPaired())
	req.True(RoomVisitor.IsPaired())
	req.False(RoomGroup.IsPaired())
}
