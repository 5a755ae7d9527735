package product

import (
	"log"
	"net/http"

	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/handlers/respond"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.BadRequest(c, "ID produit invalide")
		return uuid.Nil, false
	}
	return id, true
}

// AdminListProducts renvoie toutes les fleurs, inactives comprises, avec les filtres publics.
func (h *Handler) AdminListProducts(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	f.IncludeInactive = true
	page, err := h.Catalog.List(c.Request.Context(), f)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var input catalog.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Données invalides: "+err.Error())
		return
	}

	p, err := h.Catalog.Create(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	log.Printf("🌸 Produit créé: %s (%s)", p.Name, p.ID)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var patch catalog.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.BadRequest(c, "Données invalides: "+err.Error())
		return
	}

	p, err := h.Catalog.Update(c.Request.Context(), id, patch)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if err := h.Catalog.Delete(c.Request.Context(), id); err != nil {
		respond.Error(c, err)
		return
	}
	h.removeStoredImages(c, p.Images)

	log.Printf("🗑️ Produit supprimé: %s (%s)", p.Name, id)
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé", "id": id})
}

func (h *Handler) ToggleActive(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.Catalog.ToggleActive(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "is_active": p.IsActive})
}

func (h *Handler) BulkUpsert(c *gin.Context) {
	var input struct {
		Products []catalog.ProductInput `json:"products"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Products) == 0 {
		respond.BadRequest(c, "Liste de produits attendue")
		return
	}
	created, updated, err := h.Catalog.BulkUpsert(c.Request.Context(), input.Products)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated})
}
