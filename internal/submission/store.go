package submission

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/domain"
	"github.com/skynix/contact-service/internal/querycache"
)

// SubmissionsKey is the cache key of the listAll query.
const SubmissionsKey = "submissions"

// MutationStatus is the lifecycle of a submission attempt.
type MutationStatus string

const (
	StatusIdle    MutationStatus = "idle"
	StatusPending MutationStatus = "pending"
	StatusSuccess MutationStatus = "success"
	StatusError   MutationStatus = "error"
)

// MutationState is the status of the latest submission attempt.
type MutationState struct {
	Status MutationStatus
	ID     int64
	Err    error
}

// IsPending reports whether the latest attempt is still in flight.
func (s MutationState) IsPending() bool {
	return s.Status == StatusPending
}

// SubmissionClient is what the store needs from Client.
type SubmissionClient interface {
	Ready() bool
	Submit(ctx context.Context, req SubmitRequest) (int64, error)
	ListAll(ctx context.Context) ([]domain.ContactSubmission, error)
	GetOne(ctx context.Context, id int64) (domain.ContactSubmission, error)
}

// Store tracks the latest submission attempt and reads submissions through a shared query cache.
// Concurrent submits are not deduplicated; the latest attempt owns the reported state.
type Store struct {
	client SubmissionClient
	cache  *querycache.Cache
	logger *zap.Logger

	mu    sync.Mutex
	state MutationState
	seq   uint64
}

// NewStore wires a store to a client and the shared cache.
func NewStore(client SubmissionClient, cache *querycache.Cache, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = querycache.New()
	}
	return &Store{
		client: client,
		cache:  cache,
		logger: logger,
		state:  MutationState{Status: StatusIdle},
	}
}

// Cache exposes the shared query cache.
func (s *Store) Cache() *querycache.Cache {
	return s.cache
}

// State returns the latest attempt's state.
func (s *Store) State() MutationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset puts the mutation state back to idle.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = MutationState{Status: StatusIdle}
}

// Submit runs one submission attempt. On success the submissions list is
// marked stale; on failure the cache is left alone.
func (s *Store) Submit(ctx context.Context, req SubmitRequest) (int64, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = MutationState{Status: StatusPending}
	s.mu.Unlock()

	id, err := s.client.Submit(ctx, req)
	if err == nil {
		s.cache.Invalidate(SubmissionsKey)
		s.logger.Debug("submission created; list marked stale", zap.Int64("id", id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return id, err
	}
	if err != nil {
		s.state = MutationState{Status: StatusError, Err: err}
		return 0, err
	}
	s.state = MutationState{Status: StatusSuccess, ID: id}
	return id, nil
}

// Submissions reads the listAll query. Before the client is connected the
// query is disabled and an empty list is returned without touching the cache.
func (s *Store) Submissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	if !s.client.Ready() {
		return []domain.ContactSubmission{}, nil
	}
	return querycache.Query(ctx, s.cache, SubmissionsKey, s.client.ListAll)
}

// Submission reads one record, cached under "submissions/<id>".
func (s *Store) Submission(ctx context.Context, id int64) (domain.ContactSubmission, error) {
	if !s.client.Ready() {
		return domain.ContactSubmission{}, ErrNotInitialized
	}
	key := SubmissionsKey + "/" + strconv.FormatInt(id, 10)
	return querycache.Query(ctx, s.cache, key, func(ctx context.Context) (domain.ContactSubmission, error) {
		return s.client.GetOne(ctx, id)
	})
}

// IsStale reports whether the next Submissions call will refetch.
func (s *Store) IsStale() bool {
	return s.cache.IsStale(SubmissionsKey)
}
