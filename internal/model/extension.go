package model

import (
	"time"

	"github.com/google/uuid"
)

// ExtensionStatus is the state of an extension request.
type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "PENDING"
	ExtensionAccepted ExtensionStatus = "ACCEPTED"
	ExtensionDeclined ExtensionStatus = "DECLINED"
)

// ExtensionRequest represents the extension_requests table. At most one
// PENDING request per contract.
type ExtensionRequest struct {
	ID               uuid.UUID       `json:"id"`
	ContractID       uuid.UUID       `json:"contract_id"`
	RequesterPartyID uuid.UUID       `json:"requester_party_id"`
	CurrentEndDate   time.Time       `json:"current_end_date"`
	RequestedEndDate time.Time       `json:"requested_end_date"`
	Note             string          `json:"note"`
	DecisionNote     string          `json:"decision_note"`
	Status           ExtensionStatus `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
