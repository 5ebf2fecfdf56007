package usecases

import (
	"context"
	"errors"
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
	channelID = int64(-1001234567890)
	userID    = int64(42)
)

func newRequestJoinFixture(gateway *testutil.MockGateway) (*RequestJoinUseCase, *testutil.MockRepository, *testutil.MockTransport) {
	repo := testutil.NewMockRepository()
	transport := testutil.NewMockTransport()
	issuer := admission.NewChargeIssuer("Channel access", "Pay 10 Stars to access the channel.", 10)
	uc := NewRequestJoinUseCase(repo, issuer, transport, gateway, channelID, logger.NewLogger())
	uc.retryBackoff = time.Millisecond
	return uc, repo, transport
}

func joinEvent() dto.JoinRequestEvent {
	return dto.JoinRequestEvent{UserID: userID, ResourceID: channelID, Username: "payer"}
}

func TestRequestJoin_RecordsPendingAndSendsCharge(t *testing.T) {
	uc, repo, transport := newRequestJoinFixture(testutil.NewMockGateway())

	require.NoError(t, uc.Execute(context.Background(), joinEvent()))

	status, ok := repo.Status(userID)
	require.True(t, ok)
	assert.Equal(t, vo.AdmissionStatusPendingPayment, status)

	require.Len(t, transport.Charges, 1)
	charge := transport.Charges[0]
	assert.Equal(t, userID, charge.UserID)
	assert.Equal(t, 10, charge.Amount)
	assert.Equal(t, admission.EncodePayload(channelID, userID), charge.Payload)
}

func TestRequestJoin_IgnoresUnrelatedChat(t *testing.T) {
	uc, repo, transport := newRequestJoinFixture(testutil.NewMockGateway())

	event := joinEvent()
	event.ResourceID = -100999
	require.NoError(t, uc.Execute(context.Background(), event))

	_, ok := repo.Status(userID)
	assert.False(t, ok)
	assert.Empty(t, transport.Charges)
}

func TestRequestJoin_ResetsTerminalRecordOnReRequest(t *testing.T) {
	uc, repo, transport := newRequestJoinFixture(testutil.NewMockGateway())
	repo.SeedAdmitted(userID, channelID, "old-charge")

	require.NoError(t, uc.Execute(context.Background(), joinEvent()))

	record, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, vo.AdmissionStatusPendingPayment, record.Status())
	assert.Nil(t, record.ChargeID())
	assert.Len(t, transport.Charges, 1)
}

func TestRequestJoin_UnreachableUserAdmittedDirectly(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, transport := newRequestJoinFixture(gateway)
	transport.SetSendChargeError(admission.ErrUserUnreachable)

	require.NoError(t, uc.Execute(context.Background(), joinEvent()))

	assert.Equal(t, 1, gateway.CallCount())
	record, err := repo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, vo.AdmissionStatusAdmitted, record.Status())
	assert.Nil(t, record.ChargeID())
}

func TestRequestJoin_UnreachableUserGatewayRejects(t *testing.T) {
	gateway := testutil.NewMockGateway(admission.ErrAlreadyResolved)
	uc, repo, transport := newRequestJoinFixture(gateway)
	transport.SetSendChargeError(admission.ErrUserUnreachable)

	require.NoError(t, uc.Execute(context.Background(), joinEvent()))

	status, ok := repo.Status(userID)
	require.True(t, ok)
	assert.Equal(t, vo.AdmissionStatusFailed, status)
}

func TestRequestJoin_TransientDeliveryFailureLeavesPending(t *testing.T) {
	gateway := testutil.NewMockGateway()
	uc, repo, transport := newRequestJoinFixture(gateway)
	transport.SetSendChargeError(errors.New("telegram API error 500"))

	require.NoError(t, uc.Execute(context.Background(), joinEvent()))

	status, ok := repo.Status(userID)
	require.True(t, ok)
	assert.Equal(t, vo.AdmissionStatusPendingPayment, status)
	// Delivery failure is not a payment failure: no gateway call, user told.
	assert.Zero(t, gateway.CallCount())
	require.Len(t, transport.Messages, 1)
	assert.Equal(t, userID, transport.Messages[0].UserID)
}

func TestRequestJoin_PersistenceErrorSurfaces(t *testing.T) {
	uc, repo, transport := newRequestJoinFixture(testutil.NewMockGateway())
	repo.SetUpsertError(errors.New("database is locked"))

	err := uc.Execute(context.Background(), joinEvent())
	require.Error(t, err)
	assert.Empty(t, transport.Charges)
}
