package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skynix/contact-service/internal/domain"
)

// ErrNotFound is returned when no submission has the requested id.
var ErrNotFound = errors.New("submission not found")

// DBTX is the part of pgxpool.Pool the repository uses.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SubmissionRepository encapsulates contact submission persistence.
// Records are immutable once created.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.ContactSubmission) error
	GetByID(ctx context.Context, id int64) (*domain.ContactSubmission, error)
	ListAll(ctx context.Context) ([]domain.ContactSubmission, error)
}

type submissionRepository struct {
	db DBTX
}

// NewSubmissionRepository instantiates the PostgreSQL repository.
func NewSubmissionRepository(db DBTX) SubmissionRepository {
	return &submissionRepository{db: db}
}

const submissionColumns = `id, name, email, message, phone_number, company_name, created_at`

func (r *submissionRepository) Create(ctx context.Context, s *domain.ContactSubmission) error {
	const query = `
        INSERT INTO contact_submissions (name, email, message, phone_number, company_name, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	err := r.db.QueryRow(ctx, query,
		s.Name,
		s.Email,
		s.Message,
		s.PhoneNumber.Ptr(),
		s.CompanyName.Ptr(),
		s.Timestamp,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (*domain.ContactSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM contact_submissions WHERE id=$1`
	s, err := scanSubmission(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission %d: %w", id, err)
	}
	return s, nil
}

func (r *submissionRepository) ListAll(ctx context.Context) ([]domain.ContactSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM contact_submissions ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]domain.ContactSubmission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

func scanSubmission(row pgx.Row) (*domain.ContactSubmission, error) {
	var (
		s       domain.ContactSubmission
		phone   *string
		company *string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &phone, &company, &s.Timestamp); err != nil {
		return nil, err
	}
	s.PhoneNumber = domain.FromPtr(phone)
	s.CompanyName = domain.FromPtr(company)
	return &s, nil
}
