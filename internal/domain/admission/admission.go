// Package admission contains the domain model for paid channel admissions:
// one durable record per user tracking the path from join request through
// payment to approval.
package admission

import (
	"fmt"
	"time"

	vo "tollgate/internal/domain/admission/valueobjects"
	"tollgate/internal/shared/biztime"
)

// Admission is the per-user admission record. It is the single source of
// truth for where a user stands between requesting to join and being let in.
type Admission struct {
	userID     int64
	resourceID int64
	status     vo.AdmissionStatus
	chargeID   *string

	createdAt time.Time
	updatedAt time.Time
}

// NewAdmission creates a fresh pending record for a join request.
func NewAdmission(userID, resourceID int64) (*Admission, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if resourceID == 0 {
		return nil, fmt.Errorf("resource ID is required")
	}

	now := biztime.NowUTC()
	return &Admission{
		userID:     userID,
		resourceID: resourceID,
		status:     vo.AdmissionStatusPendingPayment,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructAdmission rebuilds an Admission from persistence.
func ReconstructAdmission(
	userID, resourceID int64,
	status vo.AdmissionStatus,
	chargeID *string,
	createdAt, updatedAt time.Time,
) *Admission {
	return &Admission{
		userID:     userID,
		resourceID: resourceID,
		status:     status,
		chargeID:   chargeID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// MarkPaid transitions pending_payment → paid and binds the charge.
// A repeated delivery of the same charge is a no-op success so duplicate
// payment notifications cannot corrupt state.
func (a *Admission) MarkPaid(chargeID string) error {
	if chargeID == "" {
		return fmt.Errorf("charge ID is required")
	}
	if a.status.HasCharge() {
		if a.chargeID != nil && *a.chargeID == chargeID {
			return nil
		}
		return ErrInvalidTransition
	}
	if a.status != vo.AdmissionStatusPendingPayment {
		return ErrInvalidTransition
	}

	a.status = vo.AdmissionStatusPaid
	a.chargeID = &chargeID
	a.updatedAt = biztime.NowUTC()
	return nil
}

// MarkAdmitted transitions paid → admitted.
func (a *Admission) MarkAdmitted() error {
	if a.status != vo.AdmissionStatusPaid {
		return ErrInvalidTransition
	}
	a.status = vo.AdmissionStatusAdmitted
	a.updatedAt = biztime.NowUTC()
	return nil
}

// MarkAdmittedWithoutCharge transitions pending_payment → admitted with no
// charge bound. This exists only for the undeliverable-invoice fallback: a
// payer the bot cannot reach is admitted directly rather than left stuck.
// It is a policy choice, not a security guarantee.
func (a *Admission) MarkAdmittedWithoutCharge() error {
	if a.status != vo.AdmissionStatusPendingPayment {
		return ErrInvalidTransition
	}
	a.status = vo.AdmissionStatusAdmitted
	a.updatedAt = biztime.NowUTC()
	return nil
}

// MarkFailed transitions any non-terminal status to failed.
func (a *Admission) MarkFailed() error {
	if a.status.IsTerminal() {
		return ErrInvalidTransition
	}
	a.status = vo.AdmissionStatusFailed
	a.updatedAt = biztime.NowUTC()
	return nil
}

// Reset returns the record to pending_payment for a fresh admission cycle,
// clearing any previously bound charge.
func (a *Admission) Reset(resourceID int64) {
	a.resourceID = resourceID
	a.status = vo.AdmissionStatusPendingPayment
	a.chargeID = nil
	a.updatedAt = biztime.NowUTC()
}

func (a *Admission) UserID() int64 {
	return a.userID
}

func (a *Admission) ResourceID() int64 {
	return a.resourceID
}

func (a *Admission) Status() vo.AdmissionStatus {
	return a.status
}

// ChargeID returns the bound charge ID, or nil while pending.
func (a *Admission) ChargeID() *string {
	return a.chargeID
}

func (a *Admission) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Admission) UpdatedAt() time.Time {
	return a.updatedAt
}
