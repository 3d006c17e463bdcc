package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/port"
)

type processedBillRepo struct {
	db *sqlx.DB
}

// NewProcessedBillRepo creates a new PostgreSQL-backed ProcessedBillRepository.
func NewProcessedBillRepo(db *sqlx.DB) port.ProcessedBillRepository {
	return &processedBillRepo{db: db}
}

func (r *processedBillRepo) Upsert(ctx context.Context, bill *domain.ProcessedBill) error {
	query := `INSERT INTO processed_bills
		(bill_id, status, url, doc_type, error, run_id, attempts, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7)
		ON CONFLICT (bill_id) DO UPDATE SET
			status = EXCLUDED.status,
			url = EXCLUDED.url,
			doc_type = EXCLUDED.doc_type,
			error = EXCLUDED.error,
			run_id = EXCLUDED.run_id,
			attempts = processed_bills.attempts + 1,
			processed_at = EXCLUDED.processed_at
		RETURNING attempts`

	err := r.db.QueryRowxContext(ctx, query,
		bill.BillID, bill.Status, bill.URL, bill.DocType, bill.Error, bill.RunID, bill.ProcessedAt,
	).Scan(&bill.Attempts)
	if err != nil {
		return fmt.Errorf("processedBillRepo.Upsert: %w", err)
	}
	return nil
}

func (r *processedBillRepo) GetByBillID(ctx context.Context, billID string) (*domain.ProcessedBill, error) {
	var bill domain.ProcessedBill
	err := r.db.GetContext(ctx, &bill, "SELECT * FROM processed_bills WHERE bill_id = $1", billID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("processedBillRepo.GetByBillID: %w", err)
	}
	return &bill, nil
}

func (r *processedBillRepo) List(ctx context.Context, offset, limit int) ([]domain.ProcessedBill, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM processed_bills"); err != nil {
		return nil, 0, fmt.Errorf("processedBillRepo.List count: %w", err)
	}

	bills := []domain.ProcessedBill{}
	err := r.db.SelectContext(ctx, &bills,
		`SELECT * FROM processed_bills
		 ORDER BY processed_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("processedBillRepo.List: %w", err)
	}
	return bills, total, nil
}
