package model

import (
	"time"

	"github.com/google/uuid"
)

// TerminationType distinguishes cutting a contract short from closing it
// out at its agreed end date.
type TerminationType string

const (
	TerminationEarly  TerminationType = "EARLY_TERMINATE"
	TerminationExpire TerminationType = "NORMAL_EXPIRE"
)

// TerminationStatus is the state of a termination request.
type TerminationStatus string

const (
	TerminationSigning   TerminationStatus = "SIGNING"
	TerminationApproved  TerminationStatus = "APPROVED"
	TerminationRejected  TerminationStatus = "REJECTED"
	TerminationCompleted TerminationStatus = "COMPLETED"
)

// ConsentStatus is the state of one party's consent. It only ever moves
// PENDING -> SIGNED.
type ConsentStatus string

const (
	ConsentPending ConsentStatus = "PENDING"
	ConsentSigned  ConsentStatus = "SIGNED"
)

// TerminationRequest represents the termination_requests table. At most one
// request per contract is in SIGNING at a time.
type TerminationRequest struct {
	ID               uuid.UUID         `json:"id"`
	ContractID       uuid.UUID         `json:"contract_id"`
	InitiatorPartyID uuid.UUID         `json:"initiator_party_id"`
	Type             TerminationType   `json:"type"`
	Reason           string            `json:"reason"`
	Status           TerminationStatus `json:"status"`
	PreviousStatus   ContractStatus    `json:"previous_status"`
	ExpiresAt        time.Time         `json:"expires_at"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// TerminationConsent represents the termination_consents table.
type TerminationConsent struct {
	ID        uuid.UUID     `json:"id"`
	RequestID uuid.UUID     `json:"request_id"`
	PartyID   uuid.UUID     `json:"party_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Status    ConsentStatus `json:"status"`
	Method    string        `json:"method"`
	SignedAt  *time.Time    `json:"signed_at,omitempty"`
}

// ConsentMethodOTP is the only consent method the portal issues today.
const ConsentMethodOTP = "OTP"

// TerminationView bundles a request with its consents for the read model.
type TerminationView struct {
	Request  *TerminationRequest  `json:"request"`
	Consents []TerminationConsent `json:"consents"`
}
