package admin

import (
	"log"
	"net/http"

	"fleur_back_end/internal/content"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

type HomepageHandler struct {
	Content *content.Repository
	Storage services.ImageStorage
}

func NewHomepageHandler(repo *content.Repository, storage services.ImageStorage) *HomepageHandler {
	return &HomepageHandler{Content: repo, Storage: storage}
}

func (h *HomepageHandler) GetHomepage(c *gin.Context) {
	hp, err := h.Content.Get(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, hp)
}

func (h *HomepageHandler) UpdateHomepage(c *gin.Context) {
	var patch content.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.BadRequest(c, "Données invalides")
		return
	}
	hp, err := h.Content.Update(c.Request.Context(), patch)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, hp)
}

// UploadHeroImage remplace l'image de la page d'accueil par le fichier "file".
func (h *HomepageHandler) UploadHeroImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respond.BadRequest(c, "Fichier manquant")
		return
	}
	ctx := c.Request.Context()

	url, err := services.UploadFile(ctx, h.Storage, "homepage", header)
	if err != nil {
		respond.Error(c, err)
		return
	}
	hp, old, err := h.Content.ReplaceHeroImage(ctx, url)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if old != "" && old != url {
		if err := h.Storage.Remove(ctx, old); err != nil {
			log.Println("⚠️ Ancienne image d'accueil non supprimée :", old, err)
		}
	}
	c.JSON(http.StatusOK, hp)
}
