package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowshop/backend/internal/domain/order"
	"github.com/glowshop/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate root.
// The one-open-cart-per-user invariant is enforced by a partial unique
// index on (user_id) where status = 'in_cart', created in migrations.
type OrderModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status            string           `gorm:"type:varchar(20);not null;index"`
	Lines             []OrderLineModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	TotalPrice        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount       int              `gorm:"not null;default:0"`
	DiscountID        *uuid.UUID       `gorm:"type:uuid;index"`
	PaymentType       string           `gorm:"type:varchar(20)"`
	Receiver          string           `gorm:"type:varchar(200)"`
	Phone             string           `gorm:"type:varchar(20)"`
	Address           string           `gorm:"type:varchar(500)"`
	Note              string           `gorm:"type:text"`
	GatewayCode       string           `gorm:"type:varchar(20);index"`
	Source            string           `gorm:"type:varchar(20);not null;default:'local'"`
	ExternalOrderID   *string          `gorm:"type:varchar(100);index"`
	FinancialStatus   string           `gorm:"type:varchar(50)"`
	FulfillmentStatus string           `gorm:"type:varchar(50)"`
	IsActive          bool             `gorm:"not null;default:true"`
	CreatedAt         time.Time        `gorm:"not null"`
	UpdatedAt         time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:            m.UserID,
		Status:            order.OrderStatus(m.Status),
		TotalPrice:        m.TotalPrice,
		TotalAmount:       m.TotalAmount,
		DiscountID:        m.DiscountID,
		PaymentType:       m.PaymentType,
		Receiver:          m.Receiver,
		Phone:             m.Phone,
		Address:           m.Address,
		Note:              m.Note,
		GatewayCode:       m.GatewayCode,
		Source:            m.Source,
		ExternalOrderID:   m.ExternalOrderID,
		FinancialStatus:   m.FinancialStatus,
		FulfillmentStatus: m.FulfillmentStatus,
		IsActive:          m.IsActive,
		Lines:             make([]order.OrderLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		o.Lines[i] = *line.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.UserID = o.UserID
	m.Status = o.Status.String()
	m.TotalPrice = o.TotalPrice
	m.TotalAmount = o.TotalAmount
	m.DiscountID = o.DiscountID
	m.PaymentType = o.PaymentType
	m.Receiver = o.Receiver
	m.Phone = o.Phone
	m.Address = o.Address
	m.Note = o.Note
	m.GatewayCode = o.GatewayCode
	m.Source = o.Source
	m.ExternalOrderID = o.ExternalOrderID
	m.FinancialStatus = o.FinancialStatus
	m.FulfillmentStatus = o.FulfillmentStatus
	m.IsActive = o.IsActive
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i].FromDomain(&line)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for an order line, keyed by
// (order_id, product_id).
type OrderLineModel struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Amount    int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Size      string          `gorm:"type:varchar(10)"`
	Rated     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() *order.OrderLine {
	return &order.OrderLine{
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Amount:    m.Amount,
		UnitPrice: m.UnitPrice,
		Size:      m.Size,
		Rated:     m.Rated,
	}
}

// FromDomain populates the persistence model from a domain OrderLine.
func (m *OrderLineModel) FromDomain(l *order.OrderLine) {
	m.OrderID = l.OrderID
	m.ProductID = l.ProductID
	m.Amount = l.Amount
	m.UnitPrice = l.UnitPrice
	m.Size = l.Size
	m.Rated = l.Rated
}
