package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/cache"
	"github.com/skynix/contact-service/internal/domain"
	"github.com/skynix/contact-service/internal/events"
	"github.com/skynix/contact-service/internal/observability"
	"github.com/skynix/contact-service/internal/repository"
	"github.com/skynix/contact-service/internal/validation"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

const messagePreviewLength = 120

// ListCache fronts the repository for the admin list. Set must refuse to
// store a list read under a generation that Invalidate has since moved past.
type ListCache interface {
	Get(ctx context.Context) ([]domain.ContactSubmission, int64, error)
	Set(ctx context.Context, gen int64, list []domain.ContactSubmission) error
	Invalidate(ctx context.Context) error
}

// SubmissionInput is an untrusted submission as received from the wire.
type SubmissionInput struct {
	Name        string
	Email       string
	PhoneNumber domain.Optional[string]
	CompanyName domain.Optional[string]
	Message     string
}

// SubmissionService coordinates contact submission workflows.
type SubmissionService struct {
	repo       repository.SubmissionRepository
	cache      ListCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// SubmissionDependencies bundles collaborators for the submission service.
type SubmissionDependencies struct {
	Repo       repository.SubmissionRepository
	Cache      ListCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	listCache := deps.Cache
	if listCache == nil {
		listCache = cache.NewSubmissionCache(nil, 0)
	}
	return &SubmissionService{
		repo:       deps.Repo,
		cache:      listCache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit stores a new submission. Inputs are trimmed and checked against the
// same rules the form applies; the server assigns id and timestamp.
func (s *SubmissionService) Submit(ctx context.Context, in SubmissionInput) (*domain.ContactSubmission, error) {
	values := validation.Values{
		Name:        validation.Trim(in.Name),
		Email:       validation.Trim(in.Email),
		PhoneNumber: validation.Trim(in.PhoneNumber.OrElse("")),
		CompanyName: validation.Trim(in.CompanyName.OrElse("")),
		Message:     validation.Trim(in.Message),
	}
	if errs := validation.Validate(values); !errs.Valid() {
		s.metrics.RecordSubmission("invalid")
		details := make(map[string]any, len(errs))
		for field, rule := range errs {
			details[string(field)] = string(rule)
		}
		return nil, apperrors.NewValidationError("validation failed", details)
	}

	submission := &domain.ContactSubmission{
		Name:        values.Name,
		Email:       values.Email,
		Message:     values.Message,
		PhoneNumber: presentIfNotEmpty(values.PhoneNumber),
		CompanyName: presentIfNotEmpty(values.CompanyName),
		Timestamp:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		s.metrics.RecordSubmission("failed")
		return nil, apperrors.NewInternalError(err)
	}
	s.metrics.RecordSubmission("created")

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("list cache invalidation failed", zap.Error(err))
	}
	s.publishCreated(ctx, submission)
	return submission, nil
}

// List returns all submissions, preferring the Redis copy.
func (s *SubmissionService) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	cached, gen, cacheErr := s.cache.Get(ctx)
	if cacheErr == nil {
		return cached, nil
	}
	if !errors.Is(cacheErr, cache.ErrMiss) {
		s.logger.Warn("list cache read failed", zap.Error(cacheErr))
	}

	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !errors.Is(cacheErr, cache.ErrMiss) {
		return list, nil
	}
	switch err := s.cache.Set(ctx, gen, list); {
	case errors.Is(err, cache.ErrStale):
		s.logger.Debug("list cache write skipped, submissions changed during read")
	case err != nil:
		s.logger.Warn("list cache write failed", zap.Error(err))
	}
	return list, nil
}

// Get returns one submission by id.
func (s *SubmissionService) Get(ctx context.Context, id int64) (*domain.ContactSubmission, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("submission", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return submission, nil
}

func (s *SubmissionService) publishCreated(ctx context.Context, submission *domain.ContactSubmission) {
	if s.dispatcher == nil {
		return
	}
	payload := events.SubmissionCreatedPayload{
		Name:           submission.Name,
		Email:          submission.Email,
		CompanyName:    submission.CompanyName.Ptr(),
		MessagePreview: preview(submission.Message, messagePreviewLength),
	}
	event := events.NewEvent(events.EventSubmissionCreated, submission.ID, payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("submission_created handlers failed",
			zap.Int64("submission_id", submission.ID),
			zap.Error(err))
	}
}

func presentIfNotEmpty(v string) domain.Optional[string] {
	if v == "" {
		return domain.Absent[string]()
	}
	return domain.Present(v)
}

func preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "…"
}
