package submission

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skynix/contact-service/internal/domain"
)

// MockBackend is a testify mock of the backend collaborator.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) SubmitContact(ctx context.Context, req SubmitRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBackend) GetAllSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactSubmission), args.Error(1)
}

func (m *MockBackend) GetSubmission(ctx context.Context, id int64) (domain.ContactSubmission, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ContactSubmission), args.Error(1)
}

func connectedClient(backend Backend) *Client {
	c := NewClient(ConnectorFunc(func(context.Context) (Backend, error) {
		return backend, nil
	}), nil)
	if err := c.Connect(context.Background()); err != nil {
		panic(err)
	}
	return c
}
