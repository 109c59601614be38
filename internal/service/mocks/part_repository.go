package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pclogr/pclogr/internal/model"
)

type MockPartRepository struct {
	mock.Mock
}

func NewMockPartRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPartRepository {
	m := &MockPartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPartRepository) ListByUser(ctx context.Context, uid model.UserID) ([]*model.Part, error) {
	args := m.Called(ctx, uid)
	var r0 []*model.Part
	if v := args.Get(0); v != nil {
		r0 = v.([]*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) PartByID(ctx context.Context, uid model.UserID, id string) (*model.Part, error) {
	args := m.Called(ctx, uid, id)
	var r0 *model.Part
	if v := args.Get(0); v != nil {
		r0 = v.(*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockPartRepository) Create(ctx context.Context, uid model.UserID, p *model.Part) (string, error) {
	args := m.Called(ctx, uid, p)
	return args.String(0), args.Error(1)
}

func (m *MockPartRepository) CreateBatch(ctx context.Context, uid model.UserID, parts []*model.Part) error {
	args := m.Called(ctx, uid, parts)
	return args.Error(0)
}

func (m *MockPartRepository) UpdateFields(ctx context.Context, uid model.UserID, id string, upd model.PartUpdate) error {
	args := m.Called(ctx, uid, id, upd)
	return args.Error(0)
}

func (m *MockPartRepository) Delete(ctx context.Context, uid model.UserID, id string) error {
	args := m.Called(ctx, uid, id)
	return args.Error(0)
}
