package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/catalog"
	"github.com/glowshop/backend/internal/domain/shared"
)

// ProductModel is the persistence model for the Product entity.
type ProductModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key"`
	Name        string           `gorm:"type:varchar(200);not null;index"`
	Description string           `gorm:"type:text"`
	Price       decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	SalePrice   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	StockAmount int              `gorm:"not null;default:0"`
	Image       string           `gorm:"type:varchar(500)"`
	IsActive    bool             `gorm:"not null;default:true"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		SalePrice:   m.SalePrice,
		StockAmount: m.StockAmount,
		Image:       m.Image,
		IsActive:    m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.SalePrice = p.SalePrice
	m.StockAmount = p.StockAmount
	m.Image = p.Image
	m.IsActive = p.IsActive
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
