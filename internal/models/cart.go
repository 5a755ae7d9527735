package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxLineQuantity est la quantité maximale d'une fleur par ligne de panier ou de commande.
const MaxLineQuantity = 99

// CartEntry est la représentation persistée d'une ligne de panier.
type CartEntry struct {
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

// Cart associe l'identifiant d'une fleur (string) à sa ligne.
type Cart map[string]CartEntry

// CartSession stocke un panier côté serveur quand Redis n'est pas utilisé.
type CartSession struct {
	VisitorID string         `gorm:"size:64;primaryKey"`
	Payload   datatypes.JSON `gorm:"not null"`
	ExpiresAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
}
