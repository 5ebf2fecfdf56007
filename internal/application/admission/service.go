// Package admission is the application layer of the paid-admission workflow.
// The Service reconciles inbound transport events against the ledger through
// one use case per event kind.
package admission

import (
	"context"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/application/admission/usecases"
	"tollgate/internal/domain/admission"
	sharedConfig "tollgate/internal/shared/config"
	"tollgate/internal/shared/logger"
)

// Service is the reconciler facade consumed by the transport update handler
// and the operational API.
type Service struct {
	requestJoin     *usecases.RequestJoinUseCase
	confirmCheckout *usecases.ConfirmPreCheckoutUseCase
	completePayment *usecases.CompletePaymentUseCase
	repo            admission.Repository
}

// NewService wires the reconciler for the configured paywall.
func NewService(
	repo admission.Repository,
	gateway admission.Gateway,
	transport admission.Transport,
	cfg sharedConfig.PaywallConfig,
	log logger.Interface,
) *Service {
	issuer := admission.NewChargeIssuer(cfg.InvoiceTitle, cfg.InvoiceDescription, cfg.PriceStars)

	return &Service{
		requestJoin:     usecases.NewRequestJoinUseCase(repo, issuer, transport, gateway, cfg.ChannelID, log),
		confirmCheckout: usecases.NewConfirmPreCheckoutUseCase(transport, log),
		completePayment: usecases.NewCompletePaymentUseCase(repo, transport, gateway, cfg.ChannelLink, log),
		repo:            repo,
	}
}

// HandleJoinRequest processes an inbound chat join request.
func (s *Service) HandleJoinRequest(ctx context.Context, userID, chatID int64, username string) error {
	return s.requestJoin.Execute(ctx, dto.JoinRequestEvent{
		UserID:     userID,
		ResourceID: chatID,
		Username:   username,
	})
}

// HandlePreCheckout acknowledges a pre-checkout query.
func (s *Service) HandlePreCheckout(ctx context.Context, queryID, payload string) error {
	return s.confirmCheckout.Execute(ctx, dto.PreCheckoutEvent{
		QueryID: queryID,
		Payload: payload,
	})
}

// HandlePaymentCompleted processes a successful payment notification.
func (s *Service) HandlePaymentCompleted(ctx context.Context, payload, chargeID string, amount int) error {
	return s.completePayment.Execute(ctx, dto.PaymentCompletedEvent{
		Payload:  payload,
		ChargeID: chargeID,
		Amount:   amount,
	})
}

// GetAdmission returns the current admission record for a user.
func (s *Service) GetAdmission(ctx context.Context, userID int64) (*dto.AdmissionResponse, error) {
	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.AdmissionResponse{
		UserID:     record.UserID(),
		ResourceID: record.ResourceID(),
		Status:     record.Status().String(),
		ChargeID:   record.ChargeID(),
		CreatedAt:  record.CreatedAt(),
		UpdatedAt:  record.UpdatedAt(),
	}, nil
}
