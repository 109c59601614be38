package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/service/mocks"
)

const testUID = model.UserID("u-1")

type deps struct {
	repo  *mocks.MockPartRepository
	saver *mocks.MockSaver
}

func newDeps(t *testing.T) deps {
	t.Helper()
	return deps{
		repo:  mocks.NewMockPartRepository(t),
		saver: mocks.NewMockSaver(t),
	}
}

func newService(d deps) *service {
	return NewPartService(d.repo, d.saver, time.Second)
}

// echoSaver hands the part straight back, so coercion results can be
// asserted on the service's return value.
type echoSaver struct{}

func (echoSaver) SaveWithFallback(_ context.Context, _ model.UserID, p *model.Part) (*model.Part, error) {
	return p, nil
}

func TestAddCoercesInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    PartInput
		check func(t *testing.T, p *model.Part)
	}{
		{
			name: "clean entry passes through",
			in: PartInput{
				Name:         " Ryzen 5 5600 ",
				Category:     "CPU",
				Price:        "129.99",
				Quantity:     2,
				Vendor:       "Newegg",
				PurchaseDate: "2024-03-09",
			},
			check: func(t *testing.T, p *model.Part) {
				assert.Equal(t, "Ryzen 5 5600", p.Name)
				assert.Equal(t, model.CategoryCPU, p.Category)
				assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("129.99")))
				assert.EqualValues(t, 2, p.Quantity)
				require.NotNil(t, p.PurchaseDate)
				assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *p.PurchaseDate)
				assert.Equal(t, model.StatusInInventory, p.Status)
			},
		},
		{
			name: "legacy category label maps to GPU",
			in:   PartInput{Name: "RTX 3060", Category: "Graphics Card", Quantity: 1},
			check: func(t *testing.T, p *model.Part) {
				assert.Equal(t, model.CategoryGPU, p.Category)
			},
		},
		{
			name: "unknown category falls back to Other",
			in:   PartInput{Name: "RGB Hub", Category: "Lighting", Quantity: 1},
			check: func(t *testing.T, p *model.Part) {
				assert.Equal(t, model.CategoryOther, p.Category)
			},
		},
		{
			name: "garbage price and quantity are coerced",
			in:   PartInput{Name: "Ryzen 5", Category: "CPU", Price: "abc", Quantity: -3},
			check: func(t *testing.T, p *model.Part) {
				assert.True(t, p.UnitPrice.IsZero())
				assert.EqualValues(t, 1, p.Quantity)
			},
		},
		{
			name: "unparseable date is dropped",
			in:   PartInput{Name: "Ryzen 5", Category: "CPU", Quantity: 1, PurchaseDate: "last tuesday"},
			check: func(t *testing.T, p *model.Part) {
				assert.Nil(t, p.PurchaseDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := mocks.NewMockPartRepository(t)
			svc := NewPartService(repo, echoSaver{}, time.Second)

			got, err := svc.Add(context.Background(), testUID, tt.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestAddRequiresName(t *testing.T) {
	t.Parallel()

	d := newDeps(t)

	_, err := newService(d).Add(context.Background(), testUID, PartInput{Name: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
	d.saver.AssertNotCalled(t, "SaveWithFallback", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAndDeleteRequireID(t *testing.T) {
	t.Parallel()

	d := newDeps(t)
	svc := newService(d)

	err := svc.Update(context.Background(), testUID, " ", model.PartUpdate{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)

	err = svc.Delete(context.Background(), testUID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestListFilterAndSort(t *testing.T) {
	t.Parallel()

	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	parts := []*model.Part{
		{ID: "a", Name: "Vengeance", Category: model.CategoryRAM, UnitPrice: decimal.NewFromInt(80), PurchaseDate: &older},
		{ID: "b", Name: "arctic P12", Category: model.CategoryCooler, UnitPrice: decimal.NewFromInt(10), PurchaseDate: &newer},
		{ID: "c", Name: "Ryzen 5", Category: model.CategoryCPU, UnitPrice: decimal.NewFromInt(150)},
	}

	tests := []struct {
		name    string
		filter  model.ListFilter
		wantIDs []string
	}{
		{name: "no filter keeps repo order", filter: model.ListFilter{}, wantIDs: []string{"a", "b", "c"}},
		{name: "all is a passthrough", filter: model.ListFilter{Category: "All"}, wantIDs: []string{"a", "b", "c"}},
		{name: "category filter is case-insensitive", filter: model.ListFilter{Category: "ram"}, wantIDs: []string{"a"}},
		{name: "sort by name ignores case", filter: model.ListFilter{SortBy: "name"}, wantIDs: []string{"b", "c", "a"}},
		{name: "sort by price ascending", filter: model.ListFilter{SortBy: "price"}, wantIDs: []string{"b", "a", "c"}},
		{name: "purchase date newest first, missing last", filter: model.ListFilter{SortBy: "purchaseDate"}, wantIDs: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps(t)
			d.repo.On("ListByUser", mock.Anything, testUID).Return(parts, nil).Once()

			got, err := newService(d).List(context.Background(), testUID, tt.filter)
			require.NoError(t, err)

			gotIDs := make([]string, 0, len(got))
			for _, p := range got {
				gotIDs = append(gotIDs, p.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}
