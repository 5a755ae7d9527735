package catalog

import (
	"context"
	"errors"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// addImage ajoute une image en gardant exactement une image principale :
// la première image devient principale, une image principale rétrograde les autres.
func addImage(tx *gorm.DB, productID uuid.UUID, url string, isMain bool) (models.ProductImage, error) {
	var count int64
	if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return models.ProductImage{}, err
	}
	if count >= models.MaxProductImages {
		return models.ProductImage{}, apperrors.Validation("5 images maximum par produit", map[string]string{"images": "5 images maximum"})
	}
	if count == 0 {
		isMain = true
	}
	if isMain {
		if err := demoteSiblings(tx, productID); err != nil {
			return models.ProductImage{}, err
		}
	}

	img := models.ProductImage{
		ProductID: productID,
		URL:       url,
		IsMain:    isMain,
		Position:  int(count),
	}
	if err := tx.Create(&img).Error; err != nil {
		return models.ProductImage{}, err
	}
	return img, nil
}

func demoteSiblings(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Model(&models.ProductImage{}).
		Where("product_id = ? AND is_main = ?", productID, true).
		Update("is_main", false).Error
}

func (r *Repository) productExists(tx *gorm.DB, productID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("Produit", productID.String())
	}
	return nil
}

// AddImage attache une image déjà stockée (URL) à une fleur.
func (r *Repository) AddImage(ctx context.Context, productID uuid.UUID, url string, isMain bool) (models.ProductImage, error) {
	if url == "" {
		return models.ProductImage{}, apperrors.Validation("URL d'image manquante", nil)
	}
	var img models.ProductImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.productExists(tx, productID); err != nil {
			return err
		}
		var err error
		img, err = addImage(tx, productID, url, isMain)
		return err
	})
	return img, err
}

// SetMainImage désigne imageID comme image principale.
func (r *Repository) SetMainImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		img, err := findImage(tx, productID, imageID)
		if err != nil {
			return err
		}
		if img.IsMain {
			return nil
		}
		if err := demoteSiblings(tx, productID); err != nil {
			return err
		}
		return tx.Model(&img).Update("is_main", true).Error
	})
}

// DeleteImage retire une image ; si c'était la principale, la plus ancienne restante la remplace.
func (r *Repository) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		img, err := findImage(tx, productID, imageID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsMain {
			return nil
		}
		var next models.ProductImage
		err = orderedImages(tx.Where("product_id = ?", productID)).First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_main", true).Error
	})
}

func findImage(tx *gorm.DB, productID, imageID uuid.UUID) (models.ProductImage, error) {
	var img models.ProductImage
	err := tx.Where("id = ? AND product_id = ?", imageID, productID).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return img, apperrors.NotFound("Image", imageID.String())
	}
	return img, err
}
