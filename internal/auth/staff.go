// Package auth authentifie les comptes du personnel.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidCredentials : identifiant inconnu, mot de passe faux ou compte sans accès.
var ErrInvalidCredentials = errors.New("identifiants invalides")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Authenticate vérifie le mot de passe et exige un compte staff actif.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.StaffUser, error) {
	var user models.StaffUser
	err := s.db.WithContext(ctx).First(&user, "username = ?", strings.TrimSpace(username)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StaffUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.StaffUser{}, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok || !user.CanAccessAdmin() {
		return models.StaffUser{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return models.StaffUser{}, err
	}
	user.LastLoginAt = &now
	return user, nil
}

// ActiveStaff renvoie le compte s'il a toujours accès au tableau de bord.
func (s *Service) ActiveStaff(ctx context.Context, id string) (models.StaffUser, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return models.StaffUser{}, ErrInvalidCredentials
	}
	var user models.StaffUser
	err = s.db.WithContext(ctx).First(&user, "id = ?", parsed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StaffUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.StaffUser{}, err
	}
	if !user.CanAccessAdmin() {
		return models.StaffUser{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureStaff crée le compte s'il n'existe pas ; renvoie true à la création.
func (s *Service) EnsureStaff(ctx context.Context, username, email, password string) (models.StaffUser, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return models.StaffUser{}, false, apperrors.Validation("Compte invalide", map[string]string{"password": "8 caractères minimum"})
	}

	var user models.StaffUser
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StaffUser{}, false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.StaffUser{}, false, err
	}
	user = models.StaffUser{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      true,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.StaffUser{}, false, err
	}
	return user, true, nil
}
