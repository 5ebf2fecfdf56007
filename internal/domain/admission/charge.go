package admission

// ChargeRequest is an outbound payment request for one admission.
type ChargeRequest struct {
	UserID      int64
	Title       string
	Description string
	// Payload correlates the eventual payment back to the join request.
	Payload string
	// Amount is the price in Telegram Stars.
	Amount int
}

// ChargeIssuer builds payment requests for pending admissions. Pure request
// construction; delivery is the transport's job.
type ChargeIssuer struct {
	title       string
	description string
	amount      int
}

// NewChargeIssuer creates a ChargeIssuer for the configured price.
func NewChargeIssuer(title, description string, amountStars int) *ChargeIssuer {
	return &ChargeIssuer{
		title:       title,
		description: description,
		amount:      amountStars,
	}
}

// Issue builds the charge for one user's admission. The payload
// deterministically encodes both IDs so the completed payment can be matched
// back without an auxiliary index.
func (i *ChargeIssuer) Issue(userID, resourceID int64) ChargeRequest {
	return ChargeRequest{
		UserID:      userID,
		Title:       i.title,
		Description: i.description,
		Payload:     EncodePayload(resourceID, userID),
		Amount:      i.amount,
	}
}
