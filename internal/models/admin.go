package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names an administrative permission level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
)

// Admin is a staff account that triages cases through the id channel.
type Admin struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	DisplayName  string    `gorm:"type:text;not null" json:"display_name"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         Role      `gorm:"type:text;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate generates the admin ID and defaults the role.
func (a *Admin) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	return
}
