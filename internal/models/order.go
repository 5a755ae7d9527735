package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses liste les statuts dans l'ordre du cycle de vie.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	CustomerName    string          `gorm:"size:200;not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"size:254" json:"customer_email"`
	CustomerPhone   string          `gorm:"size:50;not null" json:"customer_phone"`
	DeliveryCity    string          `gorm:"size:100;not null" json:"delivery_city"`
	DeliveryAddress string          `gorm:"type:text;not null" json:"delivery_address"`
	DeliveryNotes   string          `gorm:"type:text" json:"delivery_notes"`
	CardMessage     string          `gorm:"type:text" json:"card_message"`
	PaymentMethod   PaymentMethod   `gorm:"size:10;not null" json:"payment_method"`
	PaymentIntentID *string         `gorm:"size:255;uniqueIndex" json:"payment_intent_id,omitempty"`
	PaymentStatus   string          `gorm:"size:50" json:"payment_status,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency        string          `gorm:"size:3;not null" json:"currency"`
	Status          OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}

// OrderItem fige le nom, l'image et le prix de la fleur au moment de l'achat.
// ProductID devient NULL si la fleur est supprimée par la suite.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:char(36);not null;index" json:"order_id"`
	ProductID       *uuid.UUID      `gorm:"type:char(36);index" json:"product_id"`
	Product         *Product        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	ProductName     string          `gorm:"size:200;not null" json:"product_name"`
	ProductImageURL string          `gorm:"size:500" json:"product_image_url"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
