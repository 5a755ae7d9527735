// Package respond traduit les erreurs métier en réponses JSON.
package respond

import (
	"log"
	"net/http"

	"fleur_back_end/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// Error écrit la réponse d'erreur ; les erreurs 5xx sont journalisées.
func Error(c *gin.Context, err error) {
	status := apperrors.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H(apperrors.Body(err)))
}

// BadRequest répond 400 avec un message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
