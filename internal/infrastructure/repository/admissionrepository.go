package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tollgate/internal/domain/admission"
	vo "tollgate/internal/domain/admission/valueobjects"
	"tollgate/internal/infrastructure/persistence/mappers"
	"tollgate/internal/infrastructure/persistence/models"
	"tollgate/internal/shared/biztime"
	"tollgate/internal/shared/db"
)

// AdmissionRepository persists admission records. Every transition is a
// single status-guarded UPDATE, so concurrent writers for the same user
// resolve to exactly one winner without any application-level lock.
type AdmissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepository(db *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

func (r *AdmissionRepository) UpsertPending(ctx context.Context, userID, resourceID int64) error {
	now := biztime.NowUTC()
	model := &models.AdmissionModel{
		UserID:     userID,
		ResourceID: resourceID,
		Status:     vo.AdmissionStatusPendingPayment.String(),
		ChargeID:   nil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"resource_id": resourceID,
				"status":      vo.AdmissionStatusPendingPayment.String(),
				"charge_id":   nil,
				"updated_at":  now,
			}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert pending admission: %w", err)
	}

	return nil
}

func (r *AdmissionRepository) MarkPaid(ctx context.Context, userID int64, chargeID string) (*admission.Admission, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AdmissionModel{}).
		Where("user_id = ? AND status = ?", userID, vo.AdmissionStatusPendingPayment.String()).
		Updates(map[string]interface{}{
			"status":     vo.AdmissionStatusPaid.String(),
			"charge_id":  chargeID,
			"updated_at": biztime.NowUTC(),
		})

	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return nil, fmt.Errorf("charge %q already bound: %w", chargeID, admission.ErrChargeConflict)
		}
		return nil, fmt.Errorf("failed to mark admission paid: %w", result.Error)
	}

	current, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 1 {
		return current, nil
	}

	// No row matched the guard. Either the same charge already landed, which
	// is an idempotent success, or the record is in a state that does not
	// accept a payment.
	if current.Status().HasCharge() && current.ChargeID() != nil && *current.ChargeID() == chargeID {
		return current, nil
	}

	return nil, fmt.Errorf("admission for user %d is %s: %w",
		userID, current.Status(), admission.ErrInvalidTransition)
}

func (r *AdmissionRepository) CreatePaid(ctx context.Context, userID, resourceID int64, chargeID string) (*admission.Admission, error) {
	now := biztime.NowUTC()
	model := &models.AdmissionModel{
		UserID:     userID,
		ResourceID: resourceID,
		Status:     vo.AdmissionStatusPaid.String(),
		ChargeID:   &chargeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("charge %q already bound: %w", chargeID, admission.ErrChargeConflict)
		}
		return nil, fmt.Errorf("failed to create paid admission: %w", err)
	}

	return mappers.AdmissionToDomain(model)
}

func (r *AdmissionRepository) MarkAdmitted(ctx context.Context, userID int64) error {
	return r.transition(ctx, userID,
		[]string{vo.AdmissionStatusPaid.String()},
		vo.AdmissionStatusAdmitted)
}

func (r *AdmissionRepository) MarkAdmittedWithoutCharge(ctx context.Context, userID int64) error {
	return r.transition(ctx, userID,
		[]string{vo.AdmissionStatusPendingPayment.String()},
		vo.AdmissionStatusAdmitted)
}

func (r *AdmissionRepository) MarkFailed(ctx context.Context, userID int64) error {
	return r.transition(ctx, userID,
		[]string{vo.AdmissionStatusPendingPayment.String(), vo.AdmissionStatusPaid.String()},
		vo.AdmissionStatusFailed)
}

// transition applies a status-guarded update, distinguishing a missing record
// from one whose current status rejects the transition.
func (r *AdmissionRepository) transition(ctx context.Context, userID int64, from []string, to vo.AdmissionStatus) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AdmissionModel{}).
		Where("user_id = ? AND status IN ?", userID, from).
		Updates(map[string]interface{}{
			"status":     to.String(),
			"updated_at": biztime.NowUTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark admission %s: %w", to, result.Error)
	}

	if result.RowsAffected == 0 {
		current, err := r.Get(ctx, userID)
		if err != nil {
			return err
		}
		return fmt.Errorf("admission for user %d is %s: %w",
			userID, current.Status(), admission.ErrInvalidTransition)
	}

	return nil
}

func (r *AdmissionRepository) Get(ctx context.Context, userID int64) (*admission.Admission, error) {
	var model models.AdmissionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admission for user %d: %w", userID, admission.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admission: %w", err)
	}

	return mappers.AdmissionToDomain(&model)
}

// isDuplicateKeyError detects unique constraint violations. The sqlite driver
// translates these to gorm.ErrDuplicatedKey, the raw message check covers
// older driver versions.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
