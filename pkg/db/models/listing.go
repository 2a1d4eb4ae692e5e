package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// Listing is produce a farmer has put up for sale.
type Listing struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Crop            string              `gorm:"column:crop;not null;index"`
	Quantity        int                 `gorm:"column:quantity;not null"`
	Location        string              `gorm:"column:location;not null;default:'Village X'"`
	Language        string              `gorm:"column:language;not null;default:'Hindi'"`
	Status          enums.ListingStatus `gorm:"column:status;type:text;not null;default:'available'"`
	Temperature     *float64            `gorm:"column:temperature"`
	Humidity        *float64            `gorm:"column:humidity"`
	Freshness       *int                `gorm:"column:freshness"`
	QualityVerified bool                `gorm:"column:quality_verified;not null;default:false"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID so inserts work without a database-side default.
func (l *Listing) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
