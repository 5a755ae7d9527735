package catalog

import (
	"strings"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ImageInput struct {
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

// ProductInput décrit une fleur à créer.
type ProductInput struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	Category     string           `json:"category"`
	Colors       Colors           `json:"colors"`
	IsActive     *bool            `json:"is_active"`
	FreeDelivery bool             `json:"free_delivery"`
	Featured     bool             `json:"featured"`
	Images       []ImageInput     `json:"images"`
}

// ProductPatch décrit une mise à jour partielle : seuls les champs non nil sont appliqués.
// Images non nil remplace toutes les images de la fleur.
type ProductPatch struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	ClearSalePrice bool             `json:"clear_sale_price"`
	Category       *string          `json:"category"`
	Colors         *Colors          `json:"colors"`
	IsActive       *bool            `json:"is_active"`
	FreeDelivery   *bool            `json:"free_delivery"`
	Featured       *bool            `json:"featured"`
	Images         *[]ImageInput    `json:"images"`
}

func (in ProductInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "requis"
	}
	if !in.Price.IsPositive() {
		fields["price"] = "doit être supérieur à 0"
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		fields["sale_price"] = "ne peut pas être négatif"
	}
	if msg := checkImages(in.Images); msg != "" {
		fields["images"] = msg
	}
	if len(fields) > 0 {
		return apperrors.Validation("Données produit invalides", fields)
	}
	return nil
}

func (p ProductPatch) validate() error {
	fields := map[string]string{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		fields["name"] = "requis"
	}
	if p.Price != nil && !p.Price.IsPositive() {
		fields["price"] = "doit être supérieur à 0"
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		fields["sale_price"] = "ne peut pas être négatif"
	}
	if p.Images != nil {
		if msg := checkImages(*p.Images); msg != "" {
			fields["images"] = msg
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation("Données produit invalides", fields)
	}
	return nil
}

// checkImages : au plus 5 images, et exactement une principale dès qu'il y en a.
func checkImages(images []ImageInput) string {
	if len(images) > models.MaxProductImages {
		return "5 images maximum"
	}
	if len(images) == 0 {
		return ""
	}
	main := 0
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			return "URL d'image manquante"
		}
		if img.IsMain {
			main++
		}
	}
	if main != 1 {
		return "exactement une image principale requise"
	}
	return ""
}

func (in ProductInput) toModel() models.Product {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	colors := in.Colors
	if colors == nil {
		colors = Colors{}
	}
	return models.Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		SalePrice:    in.SalePrice,
		Category:     strings.TrimSpace(in.Category),
		Colors:       []string(colors),
		IsActive:     active,
		FreeDelivery: in.FreeDelivery,
		Featured:     in.Featured,
	}
}

// updates construit la map de colonnes à écrire.
func (p ProductPatch) updates() map[string]any {
	u := map[string]any{}
	if p.Name != nil {
		u["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		u["description"] = *p.Description
	}
	if p.Price != nil {
		u["price"] = *p.Price
	}
	if p.ClearSalePrice {
		u["sale_price"] = nil
	} else if p.SalePrice != nil {
		u["sale_price"] = *p.SalePrice
	}
	if p.Category != nil {
		u["category"] = strings.TrimSpace(*p.Category)
	}
	if p.Colors != nil {
		c := *p.Colors
		if c == nil {
			c = Colors{}
		}
		u["colors"] = datatypes.JSONSlice[string](c)
	}
	if p.IsActive != nil {
		u["is_active"] = *p.IsActive
	}
	if p.FreeDelivery != nil {
		u["free_delivery"] = *p.FreeDelivery
	}
	if p.Featured != nil {
		u["featured"] = *p.Featured
	}
	return u
}
