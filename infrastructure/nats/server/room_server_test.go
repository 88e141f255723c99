package server

import (
	chaterrors "chat-rooms/errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKind_MapsSentinelsToWireIdentifiers(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		err  error
		kind string
	}{
		{chaterrors.ErrUnauthorized, "Unauthorized"},
		{chaterrors.ErrTooManyMembers, "TooManyMembers"},
		{chaterrors.ErrDuplicateDirectRoom, "DuplicateDirectRoom"},
		{chaterrors.ErrGroupNameRequired, "GroupNameRequired"},
		{chaterrors.ErrNotFound, "NotFound"},
		{chaterrors.ErrStoreConflict, "StoreConflict"},
		{chaterrors.ErrInvalidRequest, "InvalidRequest"},
		{fmt.Errorf("boom"), "InternalError"},
	}
	for _, tt := range tests {
		req.Equal(tt.kind, errorKind(tt.err))
	}
}

func TestErrorKind_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: with bob", chaterrors.ErrDuplicateDirectRoom)

	require.Equal(t, "DuplicateDirectRoom", errorKind(wrapped))
}
