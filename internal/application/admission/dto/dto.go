// Package dto defines the data transfer objects crossing the admission
// application boundary.
package dto

import "time"

// JoinRequestEvent is an inbound chat join request.
type JoinRequestEvent struct {
	UserID     int64
	ResourceID int64
	Username   string
}

// PreCheckoutEvent is an inbound pre-checkout query, the protocol handshake
// Telegram requires before a payment can complete.
type PreCheckoutEvent struct {
	QueryID string
	Payload string
}

// PaymentCompletedEvent is an inbound successful payment notification.
type PaymentCompletedEvent struct {
	Payload  string
	ChargeID string
	// Amount is the paid amount in Telegram Stars.
	Amount int
}

// AdmissionResponse is the read model returned by the operational API.
type AdmissionResponse struct {
	UserID     int64     `json:"user_id"`
	ResourceID int64     `json:"resource_id"`
	Status     string    `json:"status"`
	ChargeID   *string   `json:"charge_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
