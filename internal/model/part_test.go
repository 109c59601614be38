package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Category
	}{
		{in: "CPU", want: CategoryCPU},
		{in: "cpu", want: CategoryCPU},
		{in: " psu ", want: CategoryPSU},
		{in: "Graphics Card", want: CategoryGPU},
		{in: "graphics card", want: CategoryGPU},
		{in: "Lighting", want: CategoryOther},
		{in: "", want: CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestCategorySortRank(t *testing.T) {
	t.Parallel()

	assert.Less(t, CategoryCPU.SortRank(), CategoryCooler.SortRank())
	assert.Less(t, CategoryGPU.SortRank(), CategoryPSU.SortRank())
	assert.Greater(t, Category("Lighting").SortRank(), CategoryPSU.SortRank())
	assert.Greater(t, CategoryOther.SortRank(), CategoryPSU.SortRank())
}

func TestCoercePrice(t *testing.T) {
	t.Parallel()

	assert.True(t, CoercePrice("129.99").Equal(decimal.RequireFromString("129.99")))
	assert.True(t, CoercePrice(" 5 ").Equal(decimal.NewFromInt(5)))
	assert.True(t, CoercePrice("abc").IsZero())
	assert.True(t, CoercePrice("-3").IsZero())
	assert.True(t, CoercePrice("").IsZero())
}

func TestCoerceQuantity(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 3, CoerceQuantity(3))
	assert.EqualValues(t, 1, CoerceQuantity(0))
	assert.EqualValues(t, 1, CoerceQuantity(-7))
}

func TestNormalizePurchaseDate(t *testing.T) {
	t.Parallel()

	got := NormalizePurchaseDate(" 2024-03-09 ")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, NormalizePurchaseDate(""))
	assert.Nil(t, NormalizePurchaseDate("09/03/2024"))
	assert.Nil(t, NormalizePurchaseDate("not a date"))
}
