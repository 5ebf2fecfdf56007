package models

import "time"

type AdmissionModel struct {
	UserID     int64   `gorm:"primaryKey"`
	ResourceID int64   `gorm:"not null"`
	Status     string  `gorm:"size:20;not null;index"`
	ChargeID   *string `gorm:"size:128;uniqueIndex"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (AdmissionModel) TableName() string {
	return "admissions"
}
