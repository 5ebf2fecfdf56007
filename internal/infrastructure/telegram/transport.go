package telegram

import (
	"context"
	"fmt"

	"tollgate/internal/domain/admission"
)

// Transport adapts BotService to the admission.Transport port, translating
// Bot API errors into the domain's delivery-error taxonomy.
type Transport struct {
	bot *BotService
}

// NewTransport creates the transport adapter.
func NewTransport(bot *BotService) *Transport {
	return &Transport{bot: bot}
}

// SendCharge delivers the Stars invoice to the user's private chat.
func (t *Transport) SendCharge(ctx context.Context, charge admission.ChargeRequest) error {
	err := t.bot.SendInvoice(ctx, charge.UserID, charge.Title, charge.Description, charge.Payload, charge.Amount)
	if err == nil {
		return nil
	}
	if IsUserUnreachable(err) {
		return fmt.Errorf("%w: %w", admission.ErrUserUnreachable, err)
	}
	return err
}

// AnswerPreCheckout acknowledges a pre-checkout query.
func (t *Transport) AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	return t.bot.AnswerPreCheckoutQuery(ctx, queryID, ok, errorMessage)
}

// SendMessage delivers a plain text notification.
func (t *Transport) SendMessage(ctx context.Context, userID int64, text string) error {
	return t.bot.SendMessage(ctx, userID, text)
}
