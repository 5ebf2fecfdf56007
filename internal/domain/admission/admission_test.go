package admission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "tollgate/internal/domain/admission/valueobjects"
)

// --- helpers ---

const (
	testUserID     = int64(42)
	testResourceID = int64(-1001234567890)
	testChargeID   = "c1"
)

func pendingAdmission(t *testing.T) *Admission {
	t.Helper()
	a, err := NewAdmission(testUserID, testResourceID)
	require.NoError(t, err)
	return a
}

func reconstructWith(status vo.AdmissionStatus, chargeID *string) *Admission {
	now := time.Now().UTC()
	return ReconstructAdmission(testUserID, testResourceID, status, chargeID, now, now)
}

func strPtr(s string) *string {
	return &s
}

func TestNewAdmission(t *testing.T) {
	tests := []struct {
		name       string
		userID     int64
		resourceID int64
		wantErr    bool
	}{
		{name: "valid", userID: testUserID, resourceID: testResourceID},
		{name: "missing user", userID: 0, resourceID: testResourceID, wantErr: true},
		{name: "missing resource", userID: testUserID, resourceID: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewAdmission(tc.userID, tc.resourceID)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, vo.AdmissionStatusPendingPayment, a.Status())
			assert.Nil(t, a.ChargeID())
			assert.Equal(t, tc.userID, a.UserID())
			assert.Equal(t, tc.resourceID, a.ResourceID())
		})
	}
}

func TestMarkPaid(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		a := pendingAdmission(t)
		require.NoError(t, a.MarkPaid(testChargeID))
		assert.Equal(t, vo.AdmissionStatusPaid, a.Status())
		require.NotNil(t, a.ChargeID())
		assert.Equal(t, testChargeID, *a.ChargeID())
	})

	t.Run("duplicate same charge is no-op", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusPaid, strPtr(testChargeID))
		require.NoError(t, a.MarkPaid(testChargeID))
		assert.Equal(t, vo.AdmissionStatusPaid, a.Status())
	})

	t.Run("duplicate same charge after admitted is no-op", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusAdmitted, strPtr(testChargeID))
		require.NoError(t, a.MarkPaid(testChargeID))
		assert.Equal(t, vo.AdmissionStatusAdmitted, a.Status())
	})

	t.Run("different charge while paid", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusPaid, strPtr(testChargeID))
		assert.ErrorIs(t, a.MarkPaid("c2"), ErrInvalidTransition)
		assert.Equal(t, testChargeID, *a.ChargeID())
	})

	t.Run("from failed", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusFailed, nil)
		assert.ErrorIs(t, a.MarkPaid(testChargeID), ErrInvalidTransition)
	})

	t.Run("empty charge", func(t *testing.T) {
		a := pendingAdmission(t)
		assert.Error(t, a.MarkPaid(""))
		assert.Equal(t, vo.AdmissionStatusPendingPayment, a.Status())
	})
}

func TestMarkAdmitted(t *testing.T) {
	t.Run("from paid", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusPaid, strPtr(testChargeID))
		require.NoError(t, a.MarkAdmitted())
		assert.Equal(t, vo.AdmissionStatusAdmitted, a.Status())
		assert.Equal(t, testChargeID, *a.ChargeID())
	})

	t.Run("from pending", func(t *testing.T) {
		a := pendingAdmission(t)
		assert.ErrorIs(t, a.MarkAdmitted(), ErrInvalidTransition)
	})

	t.Run("already admitted", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusAdmitted, strPtr(testChargeID))
		assert.ErrorIs(t, a.MarkAdmitted(), ErrInvalidTransition)
	})
}

func TestMarkAdmittedWithoutCharge(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		a := pendingAdmission(t)
		require.NoError(t, a.MarkAdmittedWithoutCharge())
		assert.Equal(t, vo.AdmissionStatusAdmitted, a.Status())
		assert.Nil(t, a.ChargeID())
	})

	t.Run("from paid", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusPaid, strPtr(testChargeID))
		assert.ErrorIs(t, a.MarkAdmittedWithoutCharge(), ErrInvalidTransition)
	})
}

func TestMarkFailed(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		a := pendingAdmission(t)
		require.NoError(t, a.MarkFailed())
		assert.Equal(t, vo.AdmissionStatusFailed, a.Status())
	})

	t.Run("from paid keeps charge", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusPaid, strPtr(testChargeID))
		require.NoError(t, a.MarkFailed())
		assert.Equal(t, testChargeID, *a.ChargeID())
	})

	t.Run("from admitted", func(t *testing.T) {
		a := reconstructWith(vo.AdmissionStatusAdmitted, strPtr(testChargeID))
		assert.ErrorIs(t, a.MarkFailed(), ErrInvalidTransition)
	})
}

func TestReset(t *testing.T) {
	a := reconstructWith(vo.AdmissionStatusFailed, strPtr(testChargeID))
	a.Reset(testResourceID)
	assert.Equal(t, vo.AdmissionStatusPendingPayment, a.Status())
	assert.Nil(t, a.ChargeID())
}

// The only legal paths are pending → paid → admitted, pending → admitted via
// the fallback, and failure from any non-terminal state. A pending record may
// never carry a charge.
func TestChargeInvariant(t *testing.T) {
	a := pendingAdmission(t)
	assert.Nil(t, a.ChargeID())
	require.NoError(t, a.MarkPaid(testChargeID))
	require.NoError(t, a.MarkAdmitted())
	a.Reset(testResourceID)
	assert.Nil(t, a.ChargeID())
	assert.False(t, a.Status().HasCharge())
}
