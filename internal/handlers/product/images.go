package product

import (
	"log"
	"net/http"
	"strings"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =========================
// 🟢 AJOUT IMAGE PRODUIT
// =========================

// AddProductImage accepte soit un fichier multipart "file" (envoyé au stockage),
// soit un JSON {"url": "...", "is_main": true}.
func (h *Handler) AddProductImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		url      string
		isMain   bool
		uploaded bool
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			respond.BadRequest(c, "Fichier manquant")
			return
		}
		p, err := h.Catalog.Get(ctx, id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if len(p.Images) >= models.MaxProductImages {
			respond.Error(c, apperrors.Validation("5 images maximum par produit", map[string]string{"images": "5 images maximum"}))
			return
		}
		url, err = services.UploadFile(ctx, h.Storage, "products", header)
		if err != nil {
			respond.Error(c, err)
			return
		}
		uploaded = true
		isMain = c.PostForm("is_main") == "true"
	} else {
		var input struct {
			URL    string `json:"url"`
			IsMain bool   `json:"is_main"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Données invalides")
			return
		}
		url, isMain = strings.TrimSpace(input.URL), input.IsMain
	}

	img, err := h.Catalog.AddImage(ctx, id, url, isMain)
	if err != nil {
		if uploaded {
			h.removeStoredImages(c, []models.ProductImage{{URL: url}})
		}
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Image ajoutée", "image": img})
}

func imageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		respond.BadRequest(c, "ID image invalide")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) SetMainImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}
	if err := h.Catalog.SetMainImage(c.Request.Context(), id, imgID); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image principale mise à jour"})
}

func (h *Handler) DeleteProductImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	imgID, ok := imageID(c)
	if !ok {
		return
	}

	p, err := h.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.Catalog.DeleteImage(c.Request.Context(), id, imgID); err != nil {
		respond.Error(c, err)
		return
	}
	for _, img := range p.Images {
		if img.ID == imgID {
			h.removeStoredImages(c, []models.ProductImage{img})
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image supprimée"})
}

// removeStoredImages supprime les fichiers du stockage ; les erreurs sont seulement journalisées.
func (h *Handler) removeStoredImages(c *gin.Context, images []models.ProductImage) {
	if h.Storage == nil {
		return
	}
	for _, img := range images {
		if err := h.Storage.Remove(c.Request.Context(), img.URL); err != nil {
			log.Println("⚠️ Image non supprimée du stockage :", img.URL, err)
		}
	}
}
