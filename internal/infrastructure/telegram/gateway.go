package telegram

import (
	"context"
	"errors"
	"fmt"

	"tollgate/internal/domain/admission"
)

// Gateway adapts approveChatJoinRequest to the admission.Gateway port.
// It maps Bot API outcomes onto the domain taxonomy and performs no retries;
// retry policy belongs to the reconciler.
type Gateway struct {
	bot *BotService
}

// NewGateway creates the gateway adapter.
func NewGateway(bot *BotService) *Gateway {
	return &Gateway{bot: bot}
}

// Approve admits the user to the chat.
func (g *Gateway) Approve(ctx context.Context, resourceID, userID int64) error {
	err := g.bot.ApproveChatJoinRequest(ctx, resourceID, userID)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// The request never produced an API response; transient.
		return fmt.Errorf("%w: %w", admission.ErrUnavailable, err)
	}

	switch {
	case apiErr.ErrorCode == 400:
		// HIDE_REQUESTER_MISSING and friends: the join request no longer
		// exists because the user already joined or withdrew it.
		return fmt.Errorf("%w: %w", admission.ErrAlreadyResolved, err)
	case apiErr.ErrorCode == 403:
		return fmt.Errorf("%w: %w", admission.ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %w", admission.ErrUnavailable, err)
	}
}
