package mocks

import (
	"context"

	"catalogapi/internal/view"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context) ([]view.ProductView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]view.ProductView), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id int64) (*view.ProductView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*view.ProductView), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, name string, price decimal.Decimal) (*view.ProductView, error) {
	args := m.Called(ctx, name, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*view.ProductView), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, name string, price decimal.Decimal) (*view.ProductView, error) {
	args := m.Called(ctx, id, name, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*view.ProductView), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) Search(ctx context.Context, name string) ([]view.ProductView, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]view.ProductView), args.Error(1)
}
