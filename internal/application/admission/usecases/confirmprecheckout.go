package usecases

import (
	"context"
	"fmt"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/domain/admission"
	"tollgate/internal/shared/logger"
)

// ConfirmPreCheckoutUseCase acknowledges pre-checkout queries. The handshake
// is required before a payment can complete and performs no state mutation;
// the ledger only moves on the successful payment itself.
type ConfirmPreCheckoutUseCase struct {
	transport admission.Transport
	logger    logger.Interface
}

// NewConfirmPreCheckoutUseCase creates a new ConfirmPreCheckoutUseCase.
func NewConfirmPreCheckoutUseCase(transport admission.Transport, logger logger.Interface) *ConfirmPreCheckoutUseCase {
	return &ConfirmPreCheckoutUseCase{
		transport: transport,
		logger:    logger,
	}
}

// Execute answers the query affirmatively.
func (uc *ConfirmPreCheckoutUseCase) Execute(ctx context.Context, event dto.PreCheckoutEvent) error {
	uc.logger.Debugw("confirming pre-checkout query",
		"query_id", event.QueryID,
		"payload", event.Payload,
	)
	if err := uc.transport.AnswerPreCheckout(ctx, event.QueryID, true, ""); err != nil {
		return fmt.Errorf("failed to answer pre-checkout query: %w", err)
	}
	return nil
}
