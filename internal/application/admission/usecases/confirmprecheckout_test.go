package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgate/internal/application/admission/dto"
	"tollgate/internal/application/admission/testutil"
	"tollgate/internal/shared/logger"
)

func TestConfirmPreCheckout_AlwaysAcknowledges(t *testing.T) {
	transport := testutil.NewMockTransport()
	uc := NewConfirmPreCheckoutUseCase(transport, logger.NewLogger())

	err := uc.Execute(context.Background(), dto.PreCheckoutEvent{QueryID: "q1", Payload: "anything"})
	require.NoError(t, err)

	require.Len(t, transport.Answers, 1)
	assert.Equal(t, "q1", transport.Answers[0].QueryID)
	assert.True(t, transport.Answers[0].OK)
}

func TestConfirmPreCheckout_AnswerFailureSurfaces(t *testing.T) {
	transport := testutil.NewMockTransport()
	transport.SetAnswerError(errors.New("telegram API error 400"))
	uc := NewConfirmPreCheckoutUseCase(transport, logger.NewLogger())

	err := uc.Execute(context.Background(), dto.PreCheckoutEvent{QueryID: "q1"})
	assert.Error(t, err)
}
