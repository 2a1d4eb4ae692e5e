package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
)

// Order is a confirmed purchase, either a checked-out cart or a direct order.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SessionID *string           `gorm:"column:session_id;index"`
	Source    enums.OrderSource `gorm:"column:source;type:text;not null"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:'confirmed'"`
	Total     decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Items     []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
