package product

import (
	"net/http"
	"strconv"

	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Catalog *catalog.Repository
	Storage services.ImageStorage
}

func New(repo *catalog.Repository, storage services.ImageStorage) *Handler {
	return &Handler{Catalog: repo, Storage: storage}
}

// filterFromQuery lit les filtres de la liste : category, color, search, min_price, max_price, page.
func filterFromQuery(c *gin.Context) (catalog.Filter, bool) {
	f := catalog.Filter{
		Category: c.Query("category"),
		Color:    c.Query("color"),
		Search:   c.Query("search"),
		Page:     1,
	}
	if raw := c.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			f.Page = page
		}
	}
	for _, p := range []struct {
		key string
		dst **decimal.Decimal
	}{{"min_price", &f.MinPrice}, {"max_price", &f.MaxPrice}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			respond.BadRequest(c, "Filtre de prix invalide: "+p.key)
			return f, false
		}
		*p.dst = &d
	}
	return f, true
}

//
// 🟢 GET /api/products
//
func (h *Handler) ListProducts(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	page, err := h.Catalog.List(c.Request.Context(), f)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

//
// 🟢 GET /api/products/:id
//
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	p, err := h.Catalog.GetActive(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

//
// 🟢 GET /api/categories
//
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// ProductFilters renvoie les valeurs disponibles pour les filtres de la vitrine.
func (h *Handler) ProductFilters(c *gin.Context) {
	f, err := h.Catalog.Filters(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
