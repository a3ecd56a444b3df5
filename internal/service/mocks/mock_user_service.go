package mocks

import (
	"context"

	"catalogapi/internal/service"
	"catalogapi/internal/view"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]view.UserView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]view.UserView), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*view.UserView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*view.UserView), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, in service.CreateUserInput) (*view.UserView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*view.UserView), args.Error(1)
}

func (m *MockUserService) LinkProduct(ctx context.Context, userID, productID int64) (*view.UserView, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*view.UserView), args.Error(1)
}
