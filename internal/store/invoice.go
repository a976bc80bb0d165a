package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentova-solution/contract-workflow-service/internal/model"
)

// CreateInvoice inserts a new invoice.
func (r *WorkflowRepository) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, contract_id, kind, amount, description, period_start, period_end, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.ContractID, inv.Kind, inv.Amount, inv.Description, inv.PeriodStart, inv.PeriodEnd, inv.Status, inv.CreatedAt)
	return err
}

// ListInvoices returns a contract's invoices, newest first.
func (r *WorkflowRepository) ListInvoices(ctx context.Context, contractID uuid.UUID) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contract_id, kind, amount, description, period_start, period_end, status, created_at
		 FROM invoices WHERE contract_id = $1 ORDER BY created_at DESC`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		err := rows.Scan(&inv.ID, &inv.ContractID, &inv.Kind, &inv.Amount, &inv.Description,
			&inv.PeriodStart, &inv.PeriodEnd, &inv.Status, &inv.CreatedAt)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
