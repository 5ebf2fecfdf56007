// Package testutil provides mock implementations for testing the admission
// application layer.
package testutil

import (
	"context"
	"sync"

	"tollgate/internal/domain/admission"
	vo "tollgate/internal/domain/admission/valueobjects"
	"tollgate/internal/shared/biztime"
)

// MockRepository is an in-memory implementation of admission.Repository.
type MockRepository struct {
	mu      sync.Mutex
	records map[int64]*admission.Admission

	// Error injection for testing.
	upsertErr       error
	markPaidErr     error
	createPaidErr   error
	markAdmittedErr error
	markFailedErr   error
	getErr          error
}

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{records: make(map[int64]*admission.Admission)}
}

func (m *MockRepository) SetUpsertError(err error)       { m.upsertErr = err }
func (m *MockRepository) SetMarkPaidError(err error)     { m.markPaidErr = err }
func (m *MockRepository) SetCreatePaidError(err error)   { m.createPaidErr = err }
func (m *MockRepository) SetMarkAdmittedError(err error) { m.markAdmittedErr = err }
func (m *MockRepository) SetMarkFailedError(err error)   { m.markFailedErr = err }
func (m *MockRepository) SetGetError(err error)          { m.getErr = err }

// Seed stores a record directly, bypassing transition guards.
func (m *MockRepository) Seed(record *admission.Admission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID()] = record
}

func (m *MockRepository) UpsertPending(ctx context.Context, userID, resourceID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if existing, ok := m.records[userID]; ok {
		existing.Reset(resourceID)
		return nil
	}
	record, err := admission.NewAdmission(userID, resourceID)
	if err != nil {
		return err
	}
	m.records[userID] = record
	return nil
}

func (m *MockRepository) MarkPaid(ctx context.Context, userID int64, chargeID string) (*admission.Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markPaidErr != nil {
		return nil, m.markPaidErr
	}
	record, ok := m.records[userID]
	if !ok {
		return nil, admission.ErrNotFound
	}
	for id, other := range m.records {
		if id != userID && other.ChargeID() != nil && *other.ChargeID() == chargeID {
			return nil, admission.ErrChargeConflict
		}
	}
	if err := record.MarkPaid(chargeID); err != nil {
		return nil, err
	}
	return record, nil
}

func (m *MockRepository) CreatePaid(ctx context.Context, userID, resourceID int64, chargeID string) (*admission.Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createPaidErr != nil {
		return nil, m.createPaidErr
	}
	record, err := admission.NewAdmission(userID, resourceID)
	if err != nil {
		return nil, err
	}
	if err := record.MarkPaid(chargeID); err != nil {
		return nil, err
	}
	m.records[userID] = record
	return record, nil
}

func (m *MockRepository) MarkAdmitted(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markAdmittedErr != nil {
		return m.markAdmittedErr
	}
	record, ok := m.records[userID]
	if !ok {
		return admission.ErrNotFound
	}
	return record.MarkAdmitted()
}

func (m *MockRepository) MarkAdmittedWithoutCharge(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markAdmittedErr != nil {
		return m.markAdmittedErr
	}
	record, ok := m.records[userID]
	if !ok {
		return admission.ErrNotFound
	}
	return record.MarkAdmittedWithoutCharge()
}

func (m *MockRepository) MarkFailed(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markFailedErr != nil {
		return m.markFailedErr
	}
	record, ok := m.records[userID]
	if !ok {
		return admission.ErrNotFound
	}
	return record.MarkFailed()
}

func (m *MockRepository) Get(ctx context.Context, userID int64) (*admission.Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[userID]
	if !ok {
		return nil, admission.ErrNotFound
	}
	return record, nil
}

// Status returns the stored status for assertions.
func (m *MockRepository) Status(userID int64) (vo.AdmissionStatus, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[userID]
	if !ok {
		return "", false
	}
	return record.Status(), true
}

// SeedPaid stores a paid record with the given charge.
func (m *MockRepository) SeedPaid(userID, resourceID int64, chargeID string) {
	now := biztime.NowUTC()
	m.Seed(admission.ReconstructAdmission(userID, resourceID, vo.AdmissionStatusPaid, &chargeID, now, now))
}

// SeedAdmitted stores an admitted record with the given charge.
func (m *MockRepository) SeedAdmitted(userID, resourceID int64, chargeID string) {
	now := biztime.NowUTC()
	m.Seed(admission.ReconstructAdmission(userID, resourceID, vo.AdmissionStatusAdmitted, &chargeID, now, now))
}

// SentMessage is a recorded outbound notification.
type SentMessage struct {
	UserID int64
	Text   string
}

// PreCheckoutAnswer is a recorded pre-checkout acknowledgement.
type PreCheckoutAnswer struct {
	QueryID      string
	OK           bool
	ErrorMessage string
}

// MockTransport records outbound transport calls.
type MockTransport struct {
	mu sync.Mutex

	Charges  []admission.ChargeRequest
	Messages []SentMessage
	Answers  []PreCheckoutAnswer

	sendChargeErr  error
	answerErr      error
	sendMessageErr error
}

// NewMockTransport creates a MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) SetSendChargeError(err error)  { m.sendChargeErr = err }
func (m *MockTransport) SetAnswerError(err error)      { m.answerErr = err }
func (m *MockTransport) SetSendMessageError(err error) { m.sendMessageErr = err }

func (m *MockTransport) SendCharge(ctx context.Context, charge admission.ChargeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendChargeErr != nil {
		return m.sendChargeErr
	}
	m.Charges = append(m.Charges, charge)
	return nil
}

func (m *MockTransport) AnswerPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.answerErr != nil {
		return m.answerErr
	}
	m.Answers = append(m.Answers, PreCheckoutAnswer{QueryID: queryID, OK: ok, ErrorMessage: errorMessage})
	return nil
}

func (m *MockTransport) SendMessage(ctx context.Context, userID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendMessageErr != nil {
		return m.sendMessageErr
	}
	m.Messages = append(m.Messages, SentMessage{UserID: userID, Text: text})
	return nil
}

// ApproveCall is a recorded gateway invocation.
type ApproveCall struct {
	ResourceID int64
	UserID     int64
}

// MockGateway returns scripted outcomes in order; the last outcome repeats.
type MockGateway struct {
	mu       sync.Mutex
	outcomes []error
	Calls    []ApproveCall
}

// NewMockGateway creates a gateway returning the given outcomes in order.
// With no outcomes every call succeeds.
func NewMockGateway(outcomes ...error) *MockGateway {
	return &MockGateway{outcomes: outcomes}
}

func (m *MockGateway) Approve(ctx context.Context, resourceID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.Calls)
	m.Calls = append(m.Calls, ApproveCall{ResourceID: resourceID, UserID: userID})
	if len(m.outcomes) == 0 {
		return nil
	}
	if call >= len(m.outcomes) {
		return m.outcomes[len(m.outcomes)-1]
	}
	return m.outcomes[call]
}

// CallCount returns how many times Approve was invoked.
func (m *MockGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
