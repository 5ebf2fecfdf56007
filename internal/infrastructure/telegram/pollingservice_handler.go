package telegram

import (
	"context"

	"tollgate/internal/shared/logger"
)

// AdmissionService defines the reconciler operations the update handler
// needs. Implemented by the admission application service.
type AdmissionService interface {
	HandleJoinRequest(ctx context.Context, userID, chatID int64, username string) error
	HandlePreCheckout(ctx context.Context, queryID, payload string) error
	HandlePaymentCompleted(ctx context.Context, payload, chargeID string, amount int) error
}

// AdmissionUpdateHandler routes the three inbound event kinds of the
// admission workflow to the application service. Anything else is ignored.
type AdmissionUpdateHandler struct {
	service AdmissionService
	logger  logger.Interface
}

// NewAdmissionUpdateHandler creates a new update handler.
func NewAdmissionUpdateHandler(service AdmissionService, logger logger.Interface) *AdmissionUpdateHandler {
	return &AdmissionUpdateHandler{
		service: service,
		logger:  logger,
	}
}

// HandleUpdate processes a single Telegram update.
func (h *AdmissionUpdateHandler) HandleUpdate(ctx context.Context, update *Update) error {
	switch {
	case update.ChatJoinRequest != nil:
		return h.handleJoinRequest(ctx, update.ChatJoinRequest)
	case update.PreCheckoutQuery != nil:
		return h.handlePreCheckout(ctx, update.PreCheckoutQuery)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		return h.handleSuccessfulPayment(ctx, update.Message)
	default:
		return nil
	}
}

func (h *AdmissionUpdateHandler) handleJoinRequest(ctx context.Context, req *ChatJoinRequest) error {
	if req.From == nil || req.Chat == nil {
		return nil
	}
	h.logger.Infow("join request received",
		"user_id", req.From.ID,
		"username", req.From.Username,
		"chat_id", req.Chat.ID,
	)
	return h.service.HandleJoinRequest(ctx, req.From.ID, req.Chat.ID, req.From.Username)
}

func (h *AdmissionUpdateHandler) handlePreCheckout(ctx context.Context, query *PreCheckoutQuery) error {
	return h.service.HandlePreCheckout(ctx, query.ID, query.InvoicePayload)
}

func (h *AdmissionUpdateHandler) handleSuccessfulPayment(ctx context.Context, msg *Message) error {
	payment := msg.SuccessfulPayment
	h.logger.Infow("successful payment received",
		"payload", payment.InvoicePayload,
		"charge_id", payment.TelegramPaymentChargeID,
		"amount", payment.TotalAmount,
		"currency", payment.Currency,
	)
	return h.service.HandlePaymentCompleted(ctx, payment.InvoicePayload, payment.TelegramPaymentChargeID, payment.TotalAmount)
}
