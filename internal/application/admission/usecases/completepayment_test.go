package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/application/admission/testutil"
	"tollgate/internal/domain/admission"
	vo "tollgate/internal/domain/admission/valueobjects"
	"tollgate/internal/shared/logger"
)

const (
	chargeID    = "c1"
	channelLink = "https://t.me/+example"
)

func newCompletePaymentFixture(gateway *testutil.MockGateway) (*CompletePaymentUseCase, *testutil.MockRepository, *testutil.MockTransport) {
	repo := testutil.NewMockRepository()
	transport := testutil.NewMockTransport()
	uc := NewCompletePaymentUseCase(repo, transport, gateway, channelLink, logger.NewLogger())
	uc.retryBackoff = time.Millisecond
	return uc, repo, transport
}

func paymentEvent() dto.PaymentCompletedEvent {
	return dto.PaymentCompletedEvent{
		Payload:  admission.EncodePayload(channelID, userID),
		ChargeID: chargeID,
		Amount:   10,
	}
}

func seedPending(t *testing.T, repo *testutil.MockRepository) {
	t.Helper()
	require.NoError(t, repo.UpsertPending(context.Background(), userID, channelID))
}

func TestCompletePayment_AdmitsPaidUser(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, transport := newCompletePaymentFixture(gateway)
	seedPending(t, repo)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	record, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, vo.AdmissionStatusAdmitted, record.Status())
	require.NotNil(t, record.ChargeID())
	assert.Equal(t, chargeID, *record.ChargeID())

	require.Equal(t, 1, gateway.CallCount())
	assert.Equal(t, testutil.ApproveCall{ResourceID: channelID, UserID: userID}, gateway.Calls[0])

	require.Len(t, transport.Messages, 1)
	assert.Contains(t, transport.Messages[0].Text, channelLink)
}

func TestCompletePayment_DuplicateAfterAdmissionIsNoOp(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, transport := newCompletePaymentFixture(gateway)
	repo.SeedAdmitted(userID, channelID, chargeID)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	status, _ := repo.Status(userID)
	assert.Equal(t, vo.AdmissionStatusAdmitted, status)
	assert.Zero(t, gateway.CallCount())
	assert.Empty(t, transport.Messages)
}

func TestCompletePayment_DuplicateWhilePaidRetriesAdmission(t *testing.T) {
	// First delivery got the user to paid but the gateway call never
	// happened (crash window). The duplicate must finish the job.
	gateway := testutil.NewMockGateway()
	uc, repo, _ := newCompletePaymentFixture(gateway)
	repo.SeedPaid(userID, channelID, chargeID)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	status, _ := repo.Status(userID)
	assert.Equal(t, vo.AdmissionStatusAdmitted, status)
	assert.Equal(t, 1, gateway.CallCount())
}

func TestCompletePayment_NoPriorRecordCreatesPaid(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, _ := newCompletePaymentFixture(gateway)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	record, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, vo.AdmissionStatusAdmitted, record.Status())
	assert.Equal(t, channelID, record.ResourceID())
}

func TestCompletePayment_ForeignPayloadDropped(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, transport := newCompletePaymentFixture(gateway)

	event := paymentEvent()
	event.Payload = "SHOP_ORDER_1234"
	require.NoError(t, uc.Execute(context.Background(), event))

	_, ok := repo.Status(userID)
	assert.False(t, ok)
	assert.Zero(t, gateway.CallCount())
	assert.Empty(t, transport.Messages)
}

func TestCompletePayment_ChargeBoundElsewhereDropped(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, _ := newCompletePaymentFixture(gateway)
	repo.SeedPaid(7, channelID, chargeID)
	seedPending(t, repo)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	status, _ := repo.Status(userID)
	assert.Equal(t, vo.AdmissionStatusPendingPayment, status)
	assert.Zero(t, gateway.CallCount())
}

func TestCompletePayment_GatewayRecoversAfterRetries(t *testing.T) {
	gateway := testutil.NewMockGateway(
		admission.ErrUnavailable,
		admission.ErrUnavailable,
		admission.ErrUnavailable,
		nil,
	)
	uc, repo, transport := newCompletePaymentFixture(gateway)
	seedPending(t, repo)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	status, _ := repo.Status(userID)
	assert.Equal(t, vo.AdmissionStatusAdmitted, status)
	assert.Equal(t, 4, gateway.CallCount())

	// Exactly one notification, and it is the welcome, not a failure.
	require.Len(t, transport.Messages, 1)
	assert.Contains(t, transport.Messages[0].Text, channelLink)
}

func TestCompletePayment_GatewayExhaustedLeavesPaid(t *testing.T) {
	gateway := testutil.NewMockGateway(admission.ErrUnavailable)
	uc, repo, transport := newCompletePaymentFixture(gateway)
	seedPending(t, repo)

	require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

	// Money changed hands: the record keeps the evidence instead of
	// degrading to failed.
	record, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, vo.AdmissionStatusPaid, record.Status())
	assert.Equal(t, chargeID, *record.ChargeID())

	assert.Equal(t, gatewayMaxAttempts, gateway.CallCount())
	require.Len(t, transport.Messages, 1)
	assert.True(t, strings.Contains(transport.Messages[0].Text, "taking longer"))
}

func TestCompletePayment_GatewayRejectionLeavesPaid(t *testing.T) {
	for _, outcome := range []error{admission.ErrAlreadyResolved, admission.ErrUnauthorized} {
		t.Run(outcome.Error(), func(t *testing.T) {
			gateway := testutil.NewMockGateway(outcome)
			uc, repo, transport := newCompletePaymentFixture(gateway)
			seedPending(t, repo)

			require.NoError(t, uc.Execute(context.Background(), paymentEvent()))

			status, _ := repo.Status(userID)
			assert.Equal(t, vo.AdmissionStatusPaid, status)
			// Non-retryable: exactly one attempt, one notification.
			assert.Equal(t, 1, gateway.CallCount())
			assert.Len(t, transport.Messages, 1)
		})
	}
}

func TestCompletePayment_PersistenceErrorSurfaces(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, _ := newCompletePaymentFixture(gateway)
	repo.SetMarkPaidError(errors.New("database is locked"))

	err := uc.Execute(context.Background(), paymentEvent())
	require.Error(t, err)
	assert.Zero(t, gateway.CallCount())
}
