package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type ownedResource struct{ owner uint64 }

func (r ownedResource) OwnedBy() uint64 { return r.owner }

func TestAssertOwned(t *testing.T) {
	t.Parallel()

	ana := Principal{UserID: 5, Username: "ana"}

	require.NoError(t, AssertOwned(ana, ownedResource{owner: 5}))
	require.ErrorIs(t, AssertOwned(ana, ownedResource{owner: 7}), ErrForbidden)

	// A zero principal never owns anything, even a zero-owner resource.
	require.ErrorIs(t, AssertOwned(Principal{}, ownedResource{owner: 0}), ErrForbidden)
}

func TestAssertSameUser(t *testing.T) {
	t.Parallel()

	ana := Principal{UserID: 5, Username: "ana"}

	require.NoError(t, AssertSameUser(ana, 5))
	require.ErrorIs(t, AssertSameUser(ana, 7), ErrForbidden)
	require.ErrorIs(t, AssertSameUser(Principal{}, 0), ErrForbidden)
}
