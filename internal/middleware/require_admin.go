package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"fleur_back_end/internal/models"
	"fleur_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// StaffDirectory vérifie qu'un compte staff existe et est actif.
type StaffDirectory interface {
	ActiveStaff(ctx context.Context, id string) (models.StaffUser, error)
}

// StaffAuth accepte un jeton Bearer ou une session staff, sinon répond 401.
func StaffAuth(staff StaffDirectory, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := ""

		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Format Authorization invalide"})
				c.Abort()
				return
			}
			claims, err := utils.ParseStaffJWT(parts[1], jwtSecret)
			if err != nil {
				log.Printf("❌ Erreur parsing JWT: %v", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
				c.Abort()
				return
			}
			staffID = claims.StaffID
		} else if sess := Session(c); sess != nil {
			staffID, _ = sess.Values[sessionStaffKey].(string)
		}

		if staffID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification requise"})
			c.Abort()
			return
		}

		user, err := staff.ActiveStaff(c.Request.Context(), staffID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Compte staff invalide"})
			c.Abort()
			return
		}

		c.Set(ctxStaffID, user.ID.String())
		c.Set(ctxRole, utils.RoleStaff)
		c.Next()
	}
}

// RequireStaff vérifie que l'utilisateur a le rôle "staff"
func RequireStaff(c *gin.Context) {
	role, exists := c.Get(ctxRole)
	if !exists || role != utils.RoleStaff {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé au personnel"})
		c.Abort()
		return
	}
	c.Next()
}
