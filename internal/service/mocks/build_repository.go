package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pclogr/pclogr/internal/model"
)

type MockBuildRepository struct {
	mock.Mock
}

func NewMockBuildRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBuildRepository {
	m := &MockBuildRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBuildRepository) Create(ctx context.Context, uid model.UserID, b *model.Build) (string, error) {
	args := m.Called(ctx, uid, b)
	return args.String(0), args.Error(1)
}

func (m *MockBuildRepository) BuildByID(ctx context.Context, uid model.UserID, id string) (*model.Build, error) {
	args := m.Called(ctx, uid, id)
	var r0 *model.Build
	if v := args.Get(0); v != nil {
		r0 = v.(*model.Build)
	}
	return r0, args.Error(1)
}

func (m *MockBuildRepository) ListByUser(ctx context.Context, uid model.UserID) ([]*model.Build, error) {
	args := m.Called(ctx, uid)
	var r0 []*model.Build
	if v := args.Get(0); v != nil {
		r0 = v.([]*model.Build)
	}
	return r0, args.Error(1)
}

func (m *MockBuildRepository) UpdateFields(ctx context.Context, uid model.UserID, b *model.Build) error {
	args := m.Called(ctx, uid, b)
	return args.Error(0)
}

func (m *MockBuildRepository) Delete(ctx context.Context, uid model.UserID, id string) error {
	args := m.Called(ctx, uid, id)
	return args.Error(0)
}
