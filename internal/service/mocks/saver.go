package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pclogr/pclogr/internal/model"
)

type MockSaver struct {
	mock.Mock
}

func NewMockSaver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSaver {
	m := &MockSaver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSaver) SaveWithFallback(ctx context.Context, uid model.UserID, p *model.Part) (*model.Part, error) {
	args := m.Called(ctx, uid, p)
	var r0 *model.Part
	if v := args.Get(0); v != nil {
		r0 = v.(*model.Part)
	}
	return r0, args.Error(1)
}
