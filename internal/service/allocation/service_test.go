package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pclogr/pclogr/internal/model"
	"github.com/pclogr/pclogr/internal/service/mocks"
)

const testUID = model.UserID("u-1")

type commitDeps struct {
	parts  *mocks.MockPartRepository
	builds *mocks.MockBuildRepository
}

func newCommitDeps(t *testing.T) commitDeps {
	t.Helper()
	return commitDeps{
		parts:  mocks.NewMockPartRepository(t),
		builds: mocks.NewMockBuildRepository(t),
	}
}

func stagedSelection(t *testing.T, live []*model.Part, want map[string]int64) *Selection {
	t.Helper()

	sel := NewSelection()
	byID := lo.KeyBy(live, func(p *model.Part) string { return p.ID })
	for id, qty := range want {
		require.NoError(t, sel.Add(byID[id], live))
		applied, clamped := sel.SetQuantity(id, qty, live)
		require.False(t, clamped)
		require.EqualValues(t, qty, applied)
	}
	return sel
}

func TestCommitValidation(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)

	tests := []struct {
		name      string
		buildName string
		sel       func(t *testing.T) *Selection
	}{
		{
			name:      "blank name",
			buildName: "   ",
			sel: func(t *testing.T) *Selection {
				return stagedSelection(t, []*model.Part{cpu}, map[string]int64{"p1": 1})
			},
		},
		{
			name:      "nil selection",
			buildName: "Gaming rig",
			sel:       func(t *testing.T) *Selection { return nil },
		},
		{
			name:      "empty selection",
			buildName: "Gaming rig",
			sel:       func(t *testing.T) *Selection { return NewSelection() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newCommitDeps(t)
			svc := NewAllocationService(d.parts, d.builds, time.Second, time.Second, time.Second)

			got, err := svc.Commit(context.Background(), testUID, tt.sel(t), tt.buildName, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Nil(t, got)
		})
	}
}

func TestCommitAbortsOnStaleStock(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	sel := stagedSelection(t, []*model.Part{cpu}, map[string]int64{"p1": 3})

	// By commit time a concurrent change has drained the stock.
	drained := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 1)

	d := newCommitDeps(t)
	d.parts.On("ListByUser", mock.Anything, testUID).
		Return([]*model.Part{drained}, nil).Once()

	svc := NewAllocationService(d.parts, d.builds, time.Second, time.Second, time.Second)

	got, err := svc.Commit(context.Background(), testUID, sel, "Gaming rig", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Nil(t, got)
	d.builds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommitAbortsWhenPartVanished(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	sel := stagedSelection(t, []*model.Part{cpu}, map[string]int64{"p1": 1})

	d := newCommitDeps(t)
	d.parts.On("ListByUser", mock.Anything, testUID).
		Return([]*model.Part{}, nil).Once()

	svc := NewAllocationService(d.parts, d.builds, time.Second, time.Second, time.Second)

	_, err := svc.Commit(context.Background(), testUID, sel, "Gaming rig", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
}

// Partial take: two of three units move into the build, the source part
// stays in inventory with the remainder.
func TestCommitSplitsSourcePart(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	live := []*model.Part{cpu}
	sel := stagedSelection(t, live, map[string]int64{"p1": 2})

	d := newCommitDeps(t)
	d.parts.On("ListByUser", mock.Anything, testUID).Return(live, nil).Once()
	d.builds.On("Create", mock.Anything, testUID, mock.MatchedBy(func(b *model.Build) bool {
		return b.Name == "Gaming rig" &&
			len(b.Lines) == 1 &&
			b.Lines[0].PartID == "p1" &&
			b.Lines[0].Quantity == 2 &&
			b.Total.Equal(decimal.NewFromInt(300)) &&
			b.UUID != ""
	})).Return("b-1", nil).Once()
	d.parts.On("UpdateFields", mock.Anything, testUID, "p1", model.PartUpdate{
		Quantity: lo.ToPtr(int64(1)),
	}).Return(nil).Once()
	d.parts.On("Create", mock.Anything, testUID, mock.MatchedBy(func(p *model.Part) bool {
		return p.Status == model.StatusInBuild &&
			p.Name == "Ryzen 5" &&
			p.Quantity == 2 &&
			p.LinkedBuildID == "b-1" &&
			p.SourcePartID == "p1" &&
			p.UUID != ""
	})).Return("p-spawned", nil).Once()

	svc := NewAllocationService(d.parts, d.builds, time.Second, time.Second, time.Second)

	got, err := svc.Commit(context.Background(), testUID, sel, "Gaming rig", "first build")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b-1", got.ID)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(300)))
}

// Full take: the source part is consumed entirely and deleted.
func TestCommitConsumesSourcePart(t *testing.T) {
	t.Parallel()

	gpu := livePart("p2", "RTX 3060", model.CategoryGPU, 329, 1)
	live := []*model.Part{gpu}
	sel := stagedSelection(t, live, map[string]int64{"p2": 1})

	d := newCommitDeps(t)
	d.parts.On("ListByUser", mock.Anything, testUID).Return(live, nil).Once()
	d.builds.On("Create", mock.Anything, testUID, mock.Anything).Return("b-2", nil).Once()
	d.parts.On("Delete", mock.Anything, testUID, "p2").Return(nil).Once()
	d.parts.On("Create", mock.Anything, testUID, mock.MatchedBy(func(p *model.Part) bool {
		return p.Status == model.StatusInBuild && p.Quantity == 1 && p.SourcePartID == "p2"
	})).Return("p-spawned", nil).Once()

	svc := NewAllocationService(d.parts, d.builds, time.Second, time.Second, time.Second)

	_, err := svc.Commit(context.Background(), testUID, sel, "Budget box", "")
	require.NoError(t, err)
}

// Inventory bookkeeping failures after the build write are logged, not
// surfaced. The committed build is still returned.
func TestCommitToleratesLineFailures(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	live := []*model.Part{cpu}
	sel := stagedSelection(t, live, map[string]int64{"p1": 2})

	d := newCommitDeps(t)
	d.parts.On("ListByUser", mock.Anything, testUID).Return(live, nil).Once()
	d.builds.On("Create", mock.Anything, testUID, mock.Anything).Return("b-3", nil).Once()
	d.parts.On("UpdateFields", mock.Anything, testUID, "p1", mock.Anything).
		Return(assert.AnError).Once()
	d.parts.On("Create", mock.Anything, testUID, mock.Anything).
		Return("", assert.AnError).Once()

	svc := NewAllocationService(d.parts, d.builds, time.Second, time.Second, time.Second)

	got, err := svc.Commit(context.Background(), testUID, sel, "Gaming rig", "")
	require.NoError(t, err)
	assert.Equal(t, "b-3", got.ID)
}

type slowBuildRepo struct {
	delay time.Duration
}

func (r *slowBuildRepo) Create(_ context.Context, _ model.UserID, _ *model.Build) (string, error) {
	time.Sleep(r.delay)
	return "late", nil
}

func TestCommitDeadlineIsAmbiguous(t *testing.T) {
	t.Parallel()

	cpu := livePart("p1", "Ryzen 5", model.CategoryCPU, 150, 3)
	live := []*model.Part{cpu}
	sel := stagedSelection(t, live, map[string]int64{"p1": 1})

	parts := mocks.NewMockPartRepository(t)
	parts.On("ListByUser", mock.Anything, testUID).Return(live, nil).Once()

	builds := &slowBuildRepo{delay: 200 * time.Millisecond}
	svc := NewAllocationService(parts, builds, time.Second, time.Second, 10*time.Millisecond)

	got, err := svc.Commit(context.Background(), testUID, sel, "Gaming rig", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCommitTimeout)
	assert.True(t, IsAmbiguousTimeout(err))
	assert.Nil(t, got)
}
