package services_test

import (
	"testing"

	"florist/internal/repositories"
	"florist/internal/shop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddUpdateRemove(t *testing.T) {
	s := newStorefront(t)

	view, err := s.carts.AddToCart("u1", 1)
	require.NoError(t, err)
	view, err = s.carts.AddToCart("u1", 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(100000), view.TotalPrice)

	view, err = s.carts.AddToCart("u1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, int64(145000), view.TotalPrice)

	view, err = s.carts.UpdateQuantity("u1", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(100000+4*45000), view.TotalPrice)

	_, err = s.carts.UpdateQuantity("u1", 3, -1)
	assert.ErrorIs(t, err, shop.ErrInvalidQuantity)

	view, err = s.carts.UpdateQuantity("u1", 3, 0)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	view, err = s.carts.RemoveItem("u1", 1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.TotalPrice)
}

func TestCartService_UnknownProduct(t *testing.T) {
	s := newStorefront(t)

	_, err := s.carts.AddToCart("u1", 99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	view, err := s.carts.GetCart("u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_CartsAreIsolatedPerUser(t *testing.T) {
	s := newStorefront(t)

	_, err := s.carts.AddToCart("u1", 1)
	require.NoError(t, err)

	view, err := s.carts.GetCart("u2")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	view, err = s.carts.ClearCart("u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_Favorites(t *testing.T) {
	s := newStorefront(t)

	on, err := s.carts.ToggleFavorite("u1", 3)
	require.NoError(t, err)
	assert.True(t, on)
	_, err = s.carts.ToggleFavorite("u1", 1)
	require.NoError(t, err)

	favs, err := s.carts.ListFavorites("u1")
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, int64(1), favs[0].ID, "favorites follow catalog order")
	assert.Equal(t, int64(3), favs[1].ID)

	on, err = s.carts.ToggleFavorite("u1", 3)
	require.NoError(t, err)
	assert.False(t, on)

	favs, err = s.carts.ListFavorites("u1")
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	// Ids missing from the catalog can be liked but are not listed
	on, err = s.carts.ToggleFavorite("u1", 42)
	require.NoError(t, err)
	assert.True(t, on)
	favs, err = s.carts.ListFavorites("u1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, int64(1), favs[0].ID)
}
