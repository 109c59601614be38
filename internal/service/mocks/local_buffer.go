package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/pclogr/pclogr/internal/model"
)

type MockLocalBuffer struct {
	mock.Mock
}

func NewMockLocalBuffer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLocalBuffer {
	m := &MockLocalBuffer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLocalBuffer) Load() ([]*model.Part, error) {
	args := m.Called()
	var r0 []*model.Part
	if v := args.Get(0); v != nil {
		r0 = v.([]*model.Part)
	}
	return r0, args.Error(1)
}

func (m *MockLocalBuffer) Prepend(p *model.Part) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockLocalBuffer) Save(parts []*model.Part) error {
	args := m.Called(parts)
	return args.Error(0)
}

func (m *MockLocalBuffer) Clear() error {
	args := m.Called()
	return args.Error(0)
}
