package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffUser struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:254" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsStaff      bool       `gorm:"not null" json:"is_staff"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (u *StaffUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanAccessAdmin indique si le compte peut se connecter au tableau de bord.
func (u StaffUser) CanAccessAdmin() bool {
	return u.IsStaff && u.IsActive
}
