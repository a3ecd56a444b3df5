package mocks

import (
	"context"

	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportUsers(ctx context.Context) (*service.SnapshotRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SnapshotRef), args.Error(1)
}
