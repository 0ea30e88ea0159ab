package repository

import (
	"context"
	"sync"

	"github.com/skynix/contact-service/internal/domain"
)

type memorySubmissionRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.ContactSubmission
	byID    map[int64]int
}

// NewMemorySubmissionRepository keeps submissions in process memory. Ids are
// assigned sequentially from 1.
func NewMemorySubmissionRepository() SubmissionRepository {
	return &memorySubmissionRepository{byID: make(map[int64]int)}
}

func (r *memorySubmissionRepository) Create(_ context.Context, s *domain.ContactSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.byID[s.ID] = len(r.records)
	r.records = append(r.records, *s)
	return nil
}

func (r *memorySubmissionRepository) GetByID(_ context.Context, id int64) (*domain.ContactSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	s := r.records[idx]
	return &s, nil
}

func (r *memorySubmissionRepository) ListAll(_ context.Context) ([]domain.ContactSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ContactSubmission, len(r.records))
	copy(out, r.records)
	return out, nil
}
