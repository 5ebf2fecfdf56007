package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tollgate/internal/domain/admission"
	sharedConfig "tollgate/internal/shared/config"
)

func newTestBotService(t *testing.T, status int, body string) *BotService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	bot := NewBotService(sharedConfig.TelegramConfig{BotToken: "test-token"})
	bot.baseURL = server.URL
	return bot
}

func TestGatewayApprove(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"ok":true,"result":true}`,
		},
		{
			name:    "request already resolved",
			status:  http.StatusBadRequest,
			body:    `{"ok":false,"error_code":400,"description":"Bad Request: HIDE_REQUESTER_MISSING"}`,
			wantErr: admission.ErrAlreadyResolved,
		},
		{
			name:    "bot lacks rights",
			status:  http.StatusForbidden,
			body:    `{"ok":false,"error_code":403,"description":"Forbidden: not enough rights"}`,
			wantErr: admission.ErrUnauthorized,
		},
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 5","parameters":{"retry_after":5}}`,
			wantErr: admission.ErrUnavailable,
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `{"ok":false,"error_code":502,"description":"Bad Gateway"}`,
			wantErr: admission.ErrUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := NewGateway(newTestBotService(t, tc.status, tc.body))
			err := gw.Approve(context.Background(), -100123, 42)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTransportSendCharge_UnreachableUser(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		status      int
		unreachable bool
	}{
		{
			name:        "blocked by user",
			status:      http.StatusForbidden,
			body:        `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`,
			unreachable: true,
		},
		{
			name:        "chat not found",
			status:      http.StatusBadRequest,
			body:        `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
			unreachable: true,
		},
		{
			name:        "server error is not unreachable",
			status:      http.StatusInternalServerError,
			body:        `{"ok":false,"error_code":500,"description":"Internal Server Error"}`,
			unreachable: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTransport(newTestBotService(t, tc.status, tc.body))
			err := tr.SendCharge(context.Background(), admission.ChargeRequest{
				UserID:  42,
				Title:   "Channel access",
				Payload: "JOIN_REQUEST_-100123_42",
				Amount:  10,
			})
			require.Error(t, err)
			assert.Equal(t, tc.unreachable, errors.Is(err, admission.ErrUserUnreachable))
		})
	}
}
