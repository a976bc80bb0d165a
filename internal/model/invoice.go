package model

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceKind is a closed tagged union: rent invoices derived from a
// contract period, or ad-hoc service invoices. Switches over it must handle
// both kinds.
type InvoiceKind string

const (
	InvoiceContract InvoiceKind = "CONTRACT"
	InvoiceService  InvoiceKind = "SERVICE"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "ISSUED"
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceVoid   InvoiceStatus = "VOID"
)

// Invoice represents the invoices table.
type Invoice struct {
	ID          uuid.UUID     `json:"id"`
	ContractID  uuid.UUID     `json:"contract_id"`
	Kind        InvoiceKind   `json:"kind"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
	PeriodStart *time.Time    `json:"period_start,omitempty"` // CONTRACT kind only
	PeriodEnd   *time.Time    `json:"period_end,omitempty"`   // CONTRACT kind only
	Status      InvoiceStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
