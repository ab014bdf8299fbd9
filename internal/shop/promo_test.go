package shop_test

import (
	"testing"

	"florist/internal/shop"

	"github.com/stretchr/testify/assert"
)

func TestPromoTable_KnownCodes(t *testing.T) {
	table := shop.DefaultPromoTable()
	tests := []struct {
		code       string
		recognized bool
		discount   int64
	}{
		{"SAVE10", true, 10000},
		{"FLOWER20", true, 20000},
		{"  flower20 ", true, 20000},
		{"save10", true, 10000},
		{"XYZ", false, 0},
		{"", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rule, ok := table.Lookup(tt.code)
			assert.Equal(t, tt.recognized, ok)
			if ok {
				assert.Equal(t, tt.discount, rule.Discount(100000))
			}
		})
	}
}

func TestPromoRule_Bounds(t *testing.T) {
	assert.Equal(t, int64(0), shop.Percent(10).Discount(0))
	assert.Equal(t, int64(1), shop.Percent(10).Discount(5)) // 0.5 rounds up
	assert.Equal(t, int64(15000), shop.Fixed(15000).Discount(100000))
	assert.Equal(t, int64(8000), shop.Fixed(15000).Discount(8000))
	assert.Equal(t, int64(0), shop.Fixed(-5).Discount(8000))
}
