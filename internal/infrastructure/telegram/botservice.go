// Package telegram is the Bot API transport: a thin HTTP client, the long
// polling service feeding updates to the admission workflow, and the
// adapters exposing the client through the domain ports.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sharedConfig "tollgate/internal/shared/config"
)

// starsCurrency is the Telegram Stars currency code. Stars invoices carry no
// provider token.
const starsCurrency = "XTR"

// BotService provides the Telegram Bot API operations the admission
// workflow needs.
type BotService struct {
	config     sharedConfig.TelegramConfig
	httpClient *http.Client
	baseURL    string
}

// NewBotService creates a new Telegram bot service.
func NewBotService(config sharedConfig.TelegramConfig) *BotService {
	return &BotService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: fmt.Sprintf("https://api.telegram.org/bot%s", config.BotToken),
	}
}

// DeleteWebhook removes any configured webhook so polling can take over.
func (s *BotService) DeleteWebhook(ctx context.Context) error {
	return s.makeRequest(ctx, "deleteWebhook", nil)
}

// GetUpdates retrieves updates using long polling. The context can be used
// to cancel the request for graceful shutdown.
func (s *BotService) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	body := map[string]any{
		"timeout": timeout,
		"allowed_updates": []string{
			"message",
			"pre_checkout_query",
			"chat_join_request",
		},
	}
	if offset > 0 {
		body["offset"] = offset
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	// Extended timeout so the client outlives the long poll itself.
	client := &http.Client{
		Timeout: time.Duration(timeout+10) * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/getUpdates", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result getUpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		return nil, &APIError{ErrorCode: result.ErrorCode, Description: result.Description}
	}

	return result.Result, nil
}

// SendMessage sends a plain text message to a chat.
func (s *BotService) SendMessage(ctx context.Context, chatID int64, text string) error {
	return s.makeRequest(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendInvoice sends a Stars invoice to the user's private chat.
func (s *BotService) SendInvoice(ctx context.Context, chatID int64, title, description, payload string, amountStars int) error {
	return s.makeRequest(ctx, "sendInvoice", map[string]any{
		"chat_id":     chatID,
		"title":       title,
		"description": description,
		"payload":     payload,
		"currency":    starsCurrency,
		"prices": []LabeledPrice{
			{Label: title, Amount: amountStars},
		},
	})
}

// AnswerPreCheckoutQuery confirms or rejects a pre-checkout query. Telegram
// requires an answer within 10 seconds or the payment fails.
func (s *BotService) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	body := map[string]any{
		"pre_checkout_query_id": queryID,
		"ok":                    ok,
	}
	if !ok && errorMessage != "" {
		body["error_message"] = errorMessage
	}
	return s.makeRequest(ctx, "answerPreCheckoutQuery", body)
}

// ApproveChatJoinRequest approves a pending join request for the chat.
func (s *BotService) ApproveChatJoinRequest(ctx context.Context, chatID, userID int64) error {
	return s.makeRequest(ctx, "approveChatJoinRequest", map[string]any{
		"chat_id": chatID,
		"user_id": userID,
	})
}

func (s *BotService) makeRequest(ctx context.Context, method string, body map[string]any) error {
	url := fmt.Sprintf("%s/%s", s.baseURL, method)

	var req *http.Request
	var err error
	if body != nil {
		jsonBody, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal request body: %w", marshalErr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		apiErr := &APIError{ErrorCode: result.ErrorCode, Description: result.Description}
		if result.Parameters != nil {
			apiErr.RetryAfter = result.Parameters.RetryAfter
		}
		return apiErr
	}

	return nil
}

// apiResponse represents a Telegram API response envelope.
type apiResponse struct {
	OK          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

type responseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

// getUpdatesResponse represents the response from the getUpdates API.
type getUpdatesResponse struct {
	OK          bool     `json:"ok"`
	Result      []Update `json:"result"`
	ErrorCode   int      `json:"error_code,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Update represents a Telegram update from getUpdates.
type Update struct {
	UpdateID         int64             `json:"update_id"`
	Message          *Message          `json:"message,omitempty"`
	PreCheckoutQuery *PreCheckoutQuery `json:"pre_checkout_query,omitempty"`
	ChatJoinRequest  *ChatJoinRequest  `json:"chat_join_request,omitempty"`
}

// Message represents a Telegram message.
type Message struct {
	MessageID         int64              `json:"message_id"`
	From              *User              `json:"from,omitempty"`
	Chat              *Chat              `json:"chat"`
	Date              int64              `json:"date"`
	Text              string             `json:"text,omitempty"`
	SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
}

// SuccessfulPayment carries the service message Telegram sends once a
// payment completes.
type SuccessfulPayment struct {
	Currency                string `json:"currency"`
	TotalAmount             int    `json:"total_amount"`
	InvoicePayload          string `json:"invoice_payload"`
	TelegramPaymentChargeID string `json:"telegram_payment_charge_id"`
	ProviderPaymentChargeID string `json:"provider_payment_charge_id,omitempty"`
}

// PreCheckoutQuery is Telegram's final confirmation request before charging.
type PreCheckoutQuery struct {
	ID             string `json:"id"`
	From           *User  `json:"from"`
	Currency       string `json:"currency"`
	TotalAmount    int    `json:"total_amount"`
	InvoicePayload string `json:"invoice_payload"`
}

// ChatJoinRequest represents a user's request to join a chat.
type ChatJoinRequest struct {
	Chat *Chat `json:"chat"`
	From *User `json:"from"`
	Date int64 `json:"date"`
}

// User represents a Telegram user.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// LabeledPrice is one portion of an invoice's price.
type LabeledPrice struct {
	Label string `json:"label"`
	// Amount is in the smallest currency unit; for Stars, whole Stars.
	Amount int `json:"amount"`
}
