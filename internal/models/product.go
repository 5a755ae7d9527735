package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxProductImages est le nombre maximum d'images par fleur.
const MaxProductImages = 5

type Product struct {
	ID           uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string                      `gorm:"size:200;not null;index" json:"name"`
	Description  string                      `gorm:"type:text" json:"description"`
	Price        decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice    *decimal.Decimal            `gorm:"type:decimal(12,2)" json:"sale_price"`
	Currency     string                      `gorm:"size:3;not null" json:"currency"`
	Category     string                      `gorm:"size:100;index" json:"category"`
	Colors       datatypes.JSONSlice[string] `gorm:"type:text" json:"colors"`
	IsActive     bool                        `gorm:"not null;index" json:"is_active"`
	FreeDelivery bool                        `gorm:"not null" json:"free_delivery"`
	Featured     bool                        `gorm:"not null;index" json:"featured"`
	Images       []ProductImage              `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt    time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Currency == "" {
		p.Currency = "AMD"
	}
	if p.Colors == nil {
		p.Colors = datatypes.JSONSlice[string]{}
	}
	return nil
}

// MainImageURL renvoie l'URL de l'image principale, ou "" si la fleur n'a pas d'image.
func (p Product) MainImageURL() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	return ""
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:char(36);not null;index" json:"product_id"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	IsMain    bool      `gorm:"not null" json:"is_main"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
