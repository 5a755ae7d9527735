// Package catalog gère les fleurs, leurs images et les filtres de la vitrine.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PageSize      = 21
	FeaturedLimit = 4
)

// Filter regroupe les filtres de la liste publique.
type Filter struct {
	Category        string
	Color           string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Page            int
	IncludeInactive bool
}

type Page struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx renvoie un dépôt qui travaille dans la transaction tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	if !f.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if color := strings.ToLower(strings.TrimSpace(f.Color)); color != "" {
		encoded, _ := json.Marshal(color)
		db = db.Where("colors LIKE ?", "%"+string(encoded)+"%")
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+search+"%")
	}
	if f.MinPrice != nil {
		db = db.Where("COALESCE(sale_price, price) >= ?", f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		db = db.Where("COALESCE(sale_price, price) <= ?", f.MaxPrice.InexactFloat64())
	}
	return db
}

// List renvoie une page de fleurs, les plus récentes d'abord.
func (r *Repository) List(ctx context.Context, f Filter) (Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	page := Page{Page: f.Page, PageSize: PageSize, Products: []models.Product{}}

	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(f.scope).Count(&page.Total).Error; err != nil {
		return page, err
	}
	page.TotalPages = int(math.Ceil(float64(page.Total) / float64(PageSize)))

	err := r.db.WithContext(ctx).
		Scopes(f.scope).
		Preload("Images", orderedImages).
		Order("created_at DESC").
		Limit(PageSize).
		Offset((f.Page - 1) * PageSize).
		Find(&page.Products).Error
	return page, err
}

// All renvoie toutes les fleurs, actives ou non, pour le tableau de bord.
func (r *Repository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Preload("Images", orderedImages).Order("created_at DESC").Find(&products).Error
	return products, err
}

// Featured renvoie les fleurs actives mises en avant sur la page d'accueil.
func (r *Repository) Featured(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND featured = ?", true, true).
		Preload("Images", orderedImages).
		Order("created_at DESC").
		Limit(FeaturedLimit).
		Find(&products).Error
	return products, err
}

// Categories liste les catégories des fleurs actives.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ? AND category <> ?", true, "").
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// Get renvoie une fleur, active ou non.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Images", orderedImages).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, apperrors.NotFound("Produit", id.String())
	}
	return p, err
}

// GetActive renvoie une fleur visible en vitrine.
func (r *Repository) GetActive(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return p, err
	}
	if !p.IsActive {
		return models.Product{}, apperrors.NotFound("Produit", id.String())
	}
	return p, nil
}

// FindActive charge en une requête les fleurs actives parmi ids, indexées par id.
// Les ids inconnus, invalides ou inactifs sont absents du résultat.
func (r *Repository) FindActive(ctx context.Context, ids []string) (map[string]models.Product, error) {
	found := make(map[string]models.Product, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			valid = append(valid, parsed.String())
		}
	}
	if len(valid) == 0 {
		return found, nil
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", valid, true).
		Preload("Images", orderedImages).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID.String()] = p
	}
	return found, nil
}

// Create enregistre une fleur et ses images dans une seule transaction.
func (r *Repository) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	p := in.toModel()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		for _, img := range in.Images {
			if _, err := addImage(tx, p.ID, img.URL, img.IsMain); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return r.Get(ctx, p.ID)
}

// Update applique une mise à jour partielle.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (models.Product, error) {
	if err := patch.validate(); err != nil {
		return models.Product{}, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Produit", id.String())
			}
			return err
		}
		if u := patch.updates(); len(u) > 0 {
			if err := tx.Model(&p).Updates(u).Error; err != nil {
				return err
			}
		}
		if patch.Images != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			for _, img := range *patch.Images {
				if _, err := addImage(tx, id, img.URL, img.IsMain); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return r.Get(ctx, id)
}

// ToggleActive inverse le drapeau actif.
func (r *Repository) ToggleActive(ctx context.Context, id uuid.UUID) (models.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return p, err
	}
	next := !p.IsActive
	if err := r.db.WithContext(ctx).Model(&p).Update("is_active", next).Error; err != nil {
		return p, err
	}
	p.IsActive = next
	return p, nil
}

// Delete supprime une fleur : ses images sont supprimées, les lignes de
// commande qui la référencent gardent leurs valeurs figées et perdent le lien.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Produit", id.String())
			}
			return err
		}
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

// BulkUpsert crée ou met à jour des fleurs par nom.
func (r *Repository) BulkUpsert(ctx context.Context, inputs []ProductInput) (created, updated int, err error) {
	for i, in := range inputs {
		if err := in.validate(); err != nil {
			var ve *apperrors.ValidationError
			if errors.As(err, &ve) {
				ve.Message = ve.Message + " (ligne " + strconv.Itoa(i+1) + ")"
			}
			return 0, 0, err
		}
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			var existing models.Product
			err := tx.Where("name = ?", strings.TrimSpace(in.Name)).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				p := in.toModel()
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
				for _, img := range in.Images {
					if _, err := addImage(tx, p.ID, img.URL, img.IsMain); err != nil {
						return err
					}
				}
				created++
			case err != nil:
				return err
			default:
				m := in.toModel()
				u := map[string]any{
					"description":   m.Description,
					"price":         m.Price,
					"sale_price":    m.SalePrice,
					"category":      m.Category,
					"colors":        m.Colors,
					"is_active":     m.IsActive,
					"free_delivery": m.FreeDelivery,
					"featured":      m.Featured,
				}
				if err := tx.Model(&existing).Updates(u).Error; err != nil {
					return err
				}
				if len(in.Images) > 0 {
					if err := tx.Where("product_id = ?", existing.ID).Delete(&models.ProductImage{}).Error; err != nil {
						return err
					}
					for _, img := range in.Images {
						if _, err := addImage(tx, existing.ID, img.URL, img.IsMain); err != nil {
							return err
						}
					}
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}
