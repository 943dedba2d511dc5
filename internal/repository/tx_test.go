package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/parking-platform/internal/model"
)

func TestInTx_RollbackReleasesClaim(t *testing.T) {
	store, loc, _ := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("insert failed")

	err := store.InTx(ctx, "park", func(tx *Store) error {
		if _, err := tx.Slots.Claim(ctx, loc.ID, model.SizeSmall); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := store.Slots.CountByOccupancy(ctx, loc.ID)
	require.NoError(t, err)
	assert.Zero(t, c.Occupied)
}

func TestInTx_Commit(t *testing.T) {
	store, loc, _ := newTestStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, "park", func(tx *Store) error {
		_, err := tx.Slots.Claim(ctx, loc.ID, model.SizeSmall)
		return err
	})
	require.NoError(t, err)

	c, err := store.Slots.CountByOccupancy(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Occupied)
}

func TestLocations(t *testing.T) {
	store, loc, _ := newTestStore(t)
	ctx := context.Background()

	again, err := store.Locations.EnsureByName(ctx, DefaultLocationName, "ignored")
	require.NoError(t, err)
	assert.Equal(t, loc.ID, again.ID)
	assert.Equal(t, int64(1), loc.ID)

	got, err := store.Locations.GetByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultLocationCity, got.City)

	list, err := store.Locations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
