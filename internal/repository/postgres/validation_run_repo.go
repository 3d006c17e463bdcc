package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/port"
)

type validationRunRepo struct {
	db *sqlx.DB
}

// NewValidationRunRepo creates a new PostgreSQL-backed ValidationRunRepository.
func NewValidationRunRepo(db *sqlx.DB) port.ValidationRunRepository {
	return &validationRunRepo{db: db}
}

func (r *validationRunRepo) Create(ctx context.Context, run *domain.ValidationRun) error {
	query := `INSERT INTO validation_runs
		(id, source, file_name, bill_id, extractor, status, total_checks, passed, failed,
		 success_rate, extracted_data, results, s3_bucket, s3_key, created_at)
		VALUES (:id, :source, :file_name, :bill_id, :extractor, :status, :total_checks, :passed, :failed,
		 :success_rate, :extracted_data, :results, :s3_bucket, :s3_key, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("validationRunRepo.Create: %w", err)
	}
	return nil
}

func (r *validationRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ValidationRun, error) {
	var run domain.ValidationRun
	err := r.db.GetContext(ctx, &run, "SELECT * FROM validation_runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("validationRunRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *validationRunRepo) List(ctx context.Context, offset, limit int) ([]domain.ValidationRun, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM validation_runs"); err != nil {
		return nil, 0, fmt.Errorf("validationRunRepo.List count: %w", err)
	}

	runs := []domain.ValidationRun{}
	err := r.db.SelectContext(ctx, &runs,
		`SELECT * FROM validation_runs
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("validationRunRepo.List: %w", err)
	}
	return runs, total, nil
}
