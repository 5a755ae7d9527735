// Package content gère le contenu unique de la page d'accueil.
//
// L'enregistrement porte l'identifiant fixe models.HomepageSingletonID.
// Get le crée avec des valeurs par défaut s'il n'existe pas encore : c'est le
// seul endroit où cette création a lieu.
package content

import (
	"context"
	"strings"

	"fleur_back_end/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Defaults est le contenu initial de la page d'accueil.
var Defaults = models.HomepageContent{
	Title:    "Fleurs fraîches livrées chez vous",
	Subtitle: "Bouquets et compositions faits main",
}

type Patch struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Description  *string `json:"description"`
	SpecialOffer *string `json:"special_offer"`
	HeroImageURL *string `json:"hero_image_url"`
	ExtraText    *string `json:"extra_text"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get renvoie le contenu, en le créant au premier appel.
func (r *Repository) Get(ctx context.Context) (models.HomepageContent, error) {
	row := Defaults
	row.ID = models.HomepageSingletonID
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return models.HomepageContent{}, err
	}

	var content models.HomepageContent
	err := r.db.WithContext(ctx).First(&content, "id = ?", models.HomepageSingletonID).Error
	return content, err
}

// Update applique les champs non nil.
func (r *Repository) Update(ctx context.Context, p Patch) (models.HomepageContent, error) {
	if _, err := r.Get(ctx); err != nil {
		return models.HomepageContent{}, err
	}

	u := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			u[col] = strings.TrimSpace(*v)
		}
	}
	set("title", p.Title)
	set("subtitle", p.Subtitle)
	set("description", p.Description)
	set("special_offer", p.SpecialOffer)
	set("hero_image_url", p.HeroImageURL)
	set("extra_text", p.ExtraText)

	if len(u) > 0 {
		err := r.db.WithContext(ctx).Model(&models.HomepageContent{}).
			Where("id = ?", models.HomepageSingletonID).
			Updates(u).Error
		if err != nil {
			return models.HomepageContent{}, err
		}
	}
	return r.Get(ctx)
}

// ReplaceHeroImage remplace l'image principale et renvoie l'ancienne URL.
func (r *Repository) ReplaceHeroImage(ctx context.Context, url string) (models.HomepageContent, string, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return models.HomepageContent{}, "", err
	}
	updated, err := r.Update(ctx, Patch{HeroImageURL: &url})
	return updated, current.HeroImageURL, err
}
