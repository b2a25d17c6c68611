package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/promotion"
	"github.com/glowshop/backend/internal/domain/shared"
)

// DiscountModel is the persistence model for the Discount entity.
type DiscountModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Percent        int             `gorm:"not null;default:0"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity       int             `gorm:"not null;default:0"`
	ActualQuantity int             `gorm:"not null;default:0"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discounts"
}

// ToDomain converts the persistence model to a domain Discount entity.
func (m *DiscountModel) ToDomain() *promotion.Discount {
	return &promotion.Discount{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Code:           m.Code,
		Percent:        m.Percent,
		Price:          m.Price,
		Quantity:       m.Quantity,
		ActualQuantity: m.ActualQuantity,
	}
}

// FromDomain populates the persistence model from a domain Discount entity.
func (m *DiscountModel) FromDomain(d *promotion.Discount) {
	m.ID = d.ID
	m.Code = d.Code
	m.Percent = d.Percent
	m.Price = d.Price
	m.Quantity = d.Quantity
	m.ActualQuantity = d.ActualQuantity
	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt
}

// DiscountModelFromDomain creates a new persistence model from a domain Discount.
func DiscountModelFromDomain(d *promotion.Discount) *DiscountModel {
	m := &DiscountModel{}
	m.FromDomain(d)
	return m
}
