package handlers

import (
	"net/http"

	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/content"
	"fleur_back_end/internal/handlers/respond"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	Content *content.Repository
	Catalog *catalog.Repository
}

//
// 🟢 GET /api/home
//
// Contenu de la page d'accueil et fleurs mises en avant.
func (h *HomeHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	hp, err := h.Content.Get(ctx)
	if err != nil {
		respond.Error(c, err)
		return
	}
	featured, err := h.Catalog.Featured(ctx)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": hp, "featured": featured})
}
