package shop_test

import (
	"math/rand"
	"testing"

	"florist/internal/models"
	"florist/internal/shop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roses  = models.Product{ID: 1, Name: "Red Roses", Price: 50000, Category: "bouquet"}
	tulips = models.Product{ID: 2, Name: "Tulips", Price: 30000, Category: "bouquet"}
	lilies = models.Product{ID: 3, Name: "White Lilies", Price: 45000, Category: "vase"}
)

func TestCart_AddMergesRepeatedProduct(t *testing.T) {
	var c shop.Cart
	for i := 0; i < 5; i++ {
		c.Add(roses)
	}
	c.Add(tulips)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 6, c.TotalItems())
	assert.Equal(t, int64(5*50000+30000), c.TotalPrice())
}

func TestCart_UpdateQuantity(t *testing.T) {
	var c shop.Cart
	c.Add(roses)
	c.Add(tulips)

	assert.NoError(t, c.UpdateQuantity(roses.ID, 4))
	assert.Equal(t, 4, c.Quantity(roses.ID))

	// zero removes regardless of the previous quantity
	assert.NoError(t, c.UpdateQuantity(roses.ID, 0))
	assert.Equal(t, 0, c.Quantity(roses.ID))
	assert.Equal(t, 1, c.Len())

	// absent ids are ignored
	assert.NoError(t, c.UpdateQuantity(99, 3))
	assert.NoError(t, c.UpdateQuantity(99, 0))
	assert.Equal(t, 1, c.Len())

	err := c.UpdateQuantity(tulips.ID, -1)
	assert.ErrorIs(t, err, shop.ErrInvalidQuantity)
	assert.Equal(t, 1, c.Quantity(tulips.ID))
}

func TestCart_RemoveAndClear(t *testing.T) {
	var c shop.Cart
	c.Add(roses)
	c.Add(tulips)
	c.Add(lilies)

	c.Remove(tulips.ID)
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, roses.ID, items[0].ID)
	assert.Equal(t, lilies.ID, items[1].ID)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.TotalPrice())
}

func TestCart_ItemsIsACopy(t *testing.T) {
	var c shop.Cart
	c.Add(roses)
	items := c.Items()
	items[0].Quantity = 42
	assert.Equal(t, 1, c.Quantity(roses.ID))
}

func TestCart_RandomSequencesKeepInvariants(t *testing.T) {
	catalog := []models.Product{roses, tulips, lilies}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		var c shop.Cart
		for step := 0; step < 100; step++ {
			p := catalog[rng.Intn(len(catalog))]
			switch rng.Intn(3) {
			case 0:
				c.Add(p)
			case 1:
				require.NoError(t, c.UpdateQuantity(p.ID, rng.Intn(4)))
			case 2:
				c.Remove(p.ID)
			}

			seen := map[int64]bool{}
			var want int64
			for _, it := range c.Items() {
				assert.False(t, seen[it.ID], "duplicate product %d", it.ID)
				seen[it.ID] = true
				assert.GreaterOrEqual(t, it.Quantity, 1)
				want += it.Price * int64(it.Quantity)
			}
			assert.Equal(t, want, c.TotalPrice())
		}
	}
}
