package service

import (
	"context"
	"sync"

	"github.com/skynix/contact-service/internal/domain"
	"github.com/skynix/contact-service/internal/events"
)

type fakeRepo struct {
	createFn  func(ctx context.Context, s *domain.ContactSubmission) error
	getByIDFn func(ctx context.Context, id int64) (*domain.ContactSubmission, error)
	listAllFn func(ctx context.Context) ([]domain.ContactSubmission, error)

	mu        sync.Mutex
	listCalls int
}

func (f *fakeRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	return f.createFn(ctx, s)
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.ContactSubmission, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]domain.ContactSubmission, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	return f.listAllFn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}
