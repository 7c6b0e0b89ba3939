package sessions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapsbooking/bookngon-api/internal/booking"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := booking.NewSession(7)
	require.NoError(t, sess.Selection.AddService(booking.SelectedService{
		ServiceID: 5, Name: "Gel Manicure", DurationMinutes: 45, Price: "35.00",
	}))
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	require.Len(t, loaded.Selection.Services, 1)

	// Loaded sessions are copies; mutating one must not leak into the store.
	require.NoError(t, loaded.Selection.AddService(booking.SelectedService{ServiceID: 6}))
	again, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, again.Selection.Services, 1)
}

func TestMemoryStoreDeleteAndMiss(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := booking.NewSession(7)
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Load(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
