package admin

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"fleur_back_end/internal/auth"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/middleware"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Staff     *auth.Service
	JWTSecret string
	JWTTTL    time.Duration
}

func NewAuthHandler(staff *auth.Service, jwtSecret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{Staff: staff, JWTSecret: jwtSecret, JWTTTL: ttl}
}

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// authenticate lit les identifiants (JSON ou formulaire) et répond 401 en cas d'échec.
func (h *AuthHandler) authenticate(c *gin.Context) (models.StaffUser, bool) {
	var in credentials
	if err := c.ShouldBind(&in); err != nil || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		respond.BadRequest(c, "Identifiant et mot de passe requis")
		return models.StaffUser{}, false
	}

	user, err := h.Staff.Authenticate(c.Request.Context(), in.Username, in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Println("🔒 Échec de connexion staff :", in.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return models.StaffUser{}, false
	}
	if err != nil {
		respond.Error(c, err)
		return models.StaffUser{}, false
	}
	return user, true
}

//
// 🔐 POST /admin/login
//
func (h *AuthHandler) Login(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}
	if err := middleware.LoginStaff(c, user.ID.String()); err != nil {
		respond.Error(c, err)
		return
	}
	log.Println("✅ Connexion staff :", user.Username)
	c.JSON(http.StatusOK, gin.H{"message": "Connexion réussie", "user": user})
}

//
// 🔐 POST /admin/logout
//
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.LogoutStaff(c); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

//
// 🔐 POST /api/admin/token
//
func (h *AuthHandler) Token(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}
	token, err := utils.GenerateStaffJWT(user, h.JWTSecret, h.JWTTTL)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(h.JWTTTL.Seconds()),
	})
}

// Me renvoie le compte staff connecté.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.Staff.ActiveStaff(c.Request.Context(), middleware.StaffID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	c.JSON(http.StatusOK, user)
}
