package mocks

import (
	"context"
	"time"

	"github.com/iotali/rrpc-harness/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockInvoker is a mock implementation of the rrpc.Invoker interface
type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, payload any, timeout time.Duration) (*models.RRPCResponse, error) {
	args := m.Called(ctx, payload, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RRPCResponse), args.Error(1)
}
