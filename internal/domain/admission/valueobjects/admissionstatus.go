package valueobjects

type AdmissionStatus string

const (
	AdmissionStatusPendingPayment AdmissionStatus = "pending_payment"
	AdmissionStatusPaid           AdmissionStatus = "paid"
	AdmissionStatusAdmitted       AdmissionStatus = "admitted"
	AdmissionStatusFailed         AdmissionStatus = "failed"
)

func (s AdmissionStatus) IsValid() bool {
	switch s {
	case AdmissionStatusPendingPayment, AdmissionStatusPaid, AdmissionStatusAdmitted, AdmissionStatusFailed:
		return true
	default:
		return false
	}
}

func (s AdmissionStatus) IsPending() bool {
	return s == AdmissionStatusPendingPayment
}

func (s AdmissionStatus) IsPaid() bool {
	return s == AdmissionStatusPaid
}

// IsTerminal reports whether the status ends the current admission cycle.
// Terminal records are superseded by a fresh pending record on re-request.
func (s AdmissionStatus) IsTerminal() bool {
	return s == AdmissionStatusAdmitted || s == AdmissionStatusFailed
}

// HasCharge reports whether a record in this status must carry a charge ID.
func (s AdmissionStatus) HasCharge() bool {
	return s == AdmissionStatusPaid || s == AdmissionStatusAdmitted
}

func (s AdmissionStatus) String() string {
	return string(s)
}
