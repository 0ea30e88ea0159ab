// Package submission is the client side of the contact-submission flow: the
// client wrapping the backend collaborator and the store that tracks the
// in-flight submission and caches listed submissions.
package submission

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/domain"
)

// SubmitRequest carries already trimmed and validated input. Optional fields
// must be Absent, not empty, when the user left them blank.
type SubmitRequest struct {
	Name        string                  `json:"name"`
	Email       string                  `json:"email"`
	PhoneNumber domain.Optional[string] `json:"phoneNumber"`
	CompanyName domain.Optional[string] `json:"companyName"`
	Message     string                  `json:"message"`
}

// Backend is the remote collaborator that owns submission records.
type Backend interface {
	SubmitContact(ctx context.Context, req SubmitRequest) (int64, error)
	GetAllSubmissions(ctx context.Context) ([]domain.ContactSubmission, error)
	GetSubmission(ctx context.Context, id int64) (domain.ContactSubmission, error)
}

// Connector establishes the backend session.
type Connector interface {
	Connect(ctx context.Context) (Backend, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (Backend, error)

// Connect calls f.
func (f ConnectorFunc) Connect(ctx context.Context) (Backend, error) {
	return f(ctx)
}

// Client wraps a Backend. Until Connect succeeds every call fails with ErrNotInitialized.
// It never validates or retries.
type Client struct {
	mu        sync.RWMutex
	connector Connector
	backend   Backend
	logger    *zap.Logger
}

// NewClient builds a client that is not yet connected.
func NewClient(connector Connector, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{connector: connector, logger: logger}
}

// Connect establishes the backend session. Calling it again after success is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return nil
	}
	if c.connector == nil {
		return ErrNotInitialized
	}
	backend, err := c.connector.Connect(ctx)
	if err != nil {
		return asTransport("connect", err)
	}
	c.backend = backend
	c.logger.Debug("submission backend connected")
	return nil
}

// Ready reports whether the backend session is established.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backend != nil
}

func (c *Client) current() (Backend, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.backend == nil {
		return nil, ErrNotInitialized
	}
	return c.backend, nil
}

// Submit creates a submission record and returns the id the backend assigned.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (int64, error) {
	backend, err := c.current()
	if err != nil {
		return 0, err
	}
	id, err := backend.SubmitContact(ctx, req)
	if err != nil {
		return 0, asTransport("submit", err)
	}
	return id, nil
}

// ListAll returns every submission in the backend's order.
func (c *Client) ListAll(ctx context.Context) ([]domain.ContactSubmission, error) {
	backend, err := c.current()
	if err != nil {
		return nil, err
	}
	items, err := backend.GetAllSubmissions(ctx)
	if err != nil {
		return nil, asTransport("list", err)
	}
	if items == nil {
		items = []domain.ContactSubmission{}
	}
	return items, nil
}

// GetOne fetches a single submission; ErrNotFound when the id is unknown.
func (c *Client) GetOne(ctx context.Context, id int64) (domain.ContactSubmission, error) {
	backend, err := c.current()
	if err != nil {
		return domain.ContactSubmission{}, err
	}
	item, err := backend.GetSubmission(ctx, id)
	if err != nil {
		return domain.ContactSubmission{}, asTransport("get", err)
	}
	return item, nil
}
