package catalog

import (
	"context"
	"sort"

	"fleur_back_end/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Filters décrit les valeurs proposées par les filtres de la vitrine.
type Filters struct {
	Categories []string   `json:"categories"`
	Colors     []string   `json:"colors"`
	PriceRange PriceRange `json:"price_range"`
}

// Filters calcule catégories, couleurs et fourchette de prix des fleurs actives.
func (r *Repository) Filters(ctx context.Context) (Filters, error) {
	categories, err := r.Categories(ctx)
	if err != nil {
		return Filters{}, err
	}
	out := Filters{Categories: categories}
	if out.Categories == nil {
		out.Categories = []string{}
	}

	var lists []datatypes.JSONSlice[string]
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ?", true).
		Pluck("colors", &lists).Error; err != nil {
		return Filters{}, err
	}
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	out.Colors = NormalizeColors(all)
	sort.Strings(out.Colors)

	var bounds struct {
		MinPrice decimal.NullDecimal
		MaxPrice decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("MIN(COALESCE(sale_price, price)) AS min_price, MAX(COALESCE(sale_price, price)) AS max_price").
		Where("is_active = ?", true).
		Scan(&bounds).Error; err != nil {
		return Filters{}, err
	}
	out.PriceRange = PriceRange{Min: bounds.MinPrice.Decimal, Max: bounds.MaxPrice.Decimal}
	return out, nil
}
