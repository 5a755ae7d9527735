package models

import (
	"time"

	"github.com/google/uuid"
)

// HomepageSingletonID est l'identifiant fixe de l'unique contenu de la page d'accueil.
var HomepageSingletonID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type HomepageContent struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Title        string    `gorm:"size:200" json:"title"`
	Subtitle     string    `gorm:"size:300" json:"subtitle"`
	Description  string    `gorm:"type:text" json:"description"`
	SpecialOffer string    `gorm:"size:300" json:"special_offer"`
	HeroImageURL string    `gorm:"size:500" json:"hero_image_url"`
	ExtraText    string    `gorm:"type:text" json:"extra_text"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (HomepageContent) TableName() string {
	return "homepage_content"
}
