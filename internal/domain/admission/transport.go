package admission

import "context"

// Transport is the outbound messaging boundary the admission workflow needs
// from the platform: deliver a charge, acknowledge the pre-checkout
// handshake, notify a user. Implementations wrap a blocked-user delivery
// error with ErrUserUnreachable so the reconciler can apply the
// direct-admission fallback.
type Transport interface {
	// SendCharge delivers a payment request to the user's private chat.
	SendCharge(ctx context.Context, charge ChargeRequest) error

	// AnswerPreCheckout acknowledges a pre-checkout query.
	AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error

	// SendMessage delivers a plain-language notification to the user.
	SendMessage(ctx context.Context, userID int64, text string) error
}
