package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pclogr/pclogr/internal/model"
)

func livePart(id, name string, cat model.Category, price int64, qty int64) *model.Part {
	return &model.Part{
		ID:        id,
		Name:      name,
		Category:  cat,
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
		Status:    model.StatusInInventory,
	}
}

func TestSelectionAvailable(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	live := []*model.Part{cpu}

	sel := NewSelection()
	assert.EqualValues(t, 3, sel.Available("p1", live))
	assert.EqualValues(t, 0, sel.Available("unknown", live))

	require.NoError(t, sel.Add(cpu, live))
	require.NoError(t, sel.Add(cpu, live))
	assert.EqualValues(t, 1, sel.Available("p1", live))

	require.NoError(t, sel.Add(cpu, live))
	assert.EqualValues(t, 0, sel.Available("p1", live))

	// Fourth unit exceeds stock: advisory failure, line untouched.
	err := sel.Add(cpu, live)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	lines := sel.Lines()
	require.Len(t, lines, 1)
	assert.EqualValues(t, 3, lines[0].Quantity)
}

func TestSelectionSetQuantity(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	live := []*model.Part{cpu}

	sel := NewSelection()
	require.NoError(t, sel.Add(cpu, live))

	tests := []struct {
		name        string
		requested   int64
		wantApplied int64
		wantClamped bool
	}{
		{name: "within stock", requested: 2, wantApplied: 2, wantClamped: false},
		{name: "exactly stock", requested: 3, wantApplied: 3, wantClamped: false},
		{name: "over stock clamps down", requested: 10, wantApplied: 3, wantClamped: true},
		{name: "negative clamps to zero", requested: -5, wantApplied: 0, wantClamped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, clamped := sel.SetQuantity("p1", tt.requested, live)
			assert.EqualValues(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}

	// Unknown line is always a clamp to zero.
	applied, clamped := sel.SetQuantity("missing", 2, live)
	assert.EqualValues(t, 0, applied)
	assert.True(t, clamped)
}

func TestSelectionLinesOrder(t *testing.T) {
	t.Parallel()

	psu := livePart("p-psu", "RM750x", model.CategoryPSU, 120, 1)
	cpu := livePart("p-cpu", "Ryzen 5", model.CategoryCPU, 150, 1)
	weird := livePart("p-x", "RGB Hub", model.Category("Lighting"), 20, 1)
	ram := livePart("p-ram", "Vengeance 16GB", model.CategoryRAM, 80, 1)

	live := []*model.Part{psu, cpu, weird, ram}

	sel := NewSelection()
	for _, p := range live {
		require.NoError(t, sel.Add(p, live))
	}

	got := sel.Lines()
	require.Len(t, got, 4)
	assert.Equal(t, "p-cpu", got[0].PartID)
	assert.Equal(t, "p-ram", got[1].PartID)
	assert.Equal(t, "p-psu", got[2].PartID)
	// Unrecognized category sorts last.
	assert.Equal(t, "p-x", got[3].PartID)
}

func TestSelectionTotalAndRemove(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	gpu := livePart("p2", "RTX 3060", model.CategoryGPU, 329, 1)
	live := []*model.Part{cpu, gpu}

	sel := NewSelection()
	require.NoError(t, sel.Add(cpu, live))
	require.NoError(t, sel.Add(cpu, live))
	require.NoError(t, sel.Add(gpu, live))

	assert.True(t, sel.Total().Equal(decimal.NewFromInt(150*2+329)),
		"total %s", sel.Total())

	sel.Remove("p2")
	assert.True(t, sel.Total().Equal(decimal.NewFromInt(300)))

	sel.Remove("p1")
	assert.True(t, sel.Empty())
}
