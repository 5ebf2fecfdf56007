package telegram

import (
	"errors"
	"fmt"
)

// APIError represents a structured Telegram Bot API error response.
type APIError struct {
	ErrorCode   int    // HTTP-level error code from Telegram (e.g., 400, 403, 429)
	Description string // Human-readable error description
	RetryAfter  int    // Seconds to wait before retrying (only for 429)
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram API error %d: %s (retry_after=%ds)", e.ErrorCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// IsUserUnreachable returns true if the error indicates the user cannot be
// messaged at all: the bot was blocked, the peer is a bot, or the user never
// opened a private chat with the bot (403, or 400 "chat not found").
func IsUserUnreachable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.ErrorCode == 403 {
		return true
	}
	return apiErr.ErrorCode == 400 && apiErr.Description == "Bad Request: chat not found"
}

// IsRetryable returns true for errors worth retrying: rate limits, server
// errors, and transport failures that never produced an API response.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// No structured response at all means the request never got
		// through; treat as transient.
		return true
	}
	return apiErr.ErrorCode == 429 || apiErr.ErrorCode >= 500
}
