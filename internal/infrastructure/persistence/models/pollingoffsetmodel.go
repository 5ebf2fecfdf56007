package models

import "time"

// PollingOffsetModel holds the single persisted long-polling cursor.
type PollingOffsetModel struct {
	ID        int64 `gorm:"primaryKey"`
	OffsetID  int64 `gorm:"not null"`
	UpdatedAt time.Time
}

func (PollingOffsetModel) TableName() string {
	return "polling_offsets"
}
