package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tollgate/internal/infrastructure/persistence/models"
	"tollgate/internal/shared/biztime"
)

// offsetRowID pins the single polling cursor row.
const offsetRowID = 1

// PollingOffsetRepository persists the long-polling cursor so a restart does
// not replay updates the previous run already confirmed.
type PollingOffsetRepository struct {
	db *gorm.DB
}

func NewPollingOffsetRepository(db *gorm.DB) *PollingOffsetRepository {
	return &PollingOffsetRepository{db: db}
}

func (r *PollingOffsetRepository) GetOffset(ctx context.Context) (int64, error) {
	var model models.PollingOffsetModel

	if err := r.db.WithContext(ctx).
		Where("id = ?", offsetRowID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load polling offset: %w", err)
	}

	return model.OffsetID, nil
}

func (r *PollingOffsetRepository) SaveOffset(ctx context.Context, offset int64) error {
	model := &models.PollingOffsetModel{
		ID:        offsetRowID,
		OffsetID:  offset,
		UpdatedAt: biztime.NowUTC(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"offset_id":  offset,
				"updated_at": model.UpdatedAt,
			}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save polling offset: %w", err)
	}

	return nil
}
