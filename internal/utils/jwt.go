package utils

import (
	"errors"
	"fmt"
	"time"

	"fleur_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// RoleStaff est le rôle porté par les jetons du tableau de bord.
const RoleStaff = "staff"

type StaffClaims struct {
	StaffID string `json:"staff_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateStaffJWT signe un jeton HS256 valable ttl.
func GenerateStaffJWT(user models.StaffUser, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET manquant")
	}
	now := time.Now()
	claims := StaffClaims{
		StaffID: user.ID.String(),
		Email:   user.Email,
		Role:    RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseStaffJWT vérifie la signature, l'expiration et le rôle.
func ParseStaffJWT(tokenString, secret string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != RoleStaff || claims.StaffID == "" {
		return nil, errors.New("jeton invalide")
	}
	return claims, nil
}
