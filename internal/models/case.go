package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Case is one submitted report (denúncia) tracked through its status lifecycle.
// It is reachable either by its numeric ID (administrators) or by its follow-up
// Token (whoever holds the secret).
type Case struct {
	// ID is the numeric identifier used by the administrator channel.
	ID uint `gorm:"primaryKey" json:"id"`
	// Token is the opaque follow-up secret handed to the reporter on submission.
	Token string `gorm:"type:text;uniqueIndex;not null" json:"-"`
	// Status is the current lifecycle state.
	Status Status `gorm:"type:text;not null;index" json:"status"`
	// Category is the subject area chosen on submission.
	Category Category `gorm:"type:text;not null" json:"category"`
	// Description is the free-text account provided by the reporter.
	Description string `gorm:"type:text;not null" json:"description"`
	// Anonymous marks reports submitted without reporter identification.
	Anonymous bool `json:"anonymous"`
	// ReporterName and ReporterEmail are only filled for identified reports.
	ReporterName  string `gorm:"type:text" json:"reporter_name,omitempty"`
	ReporterEmail string `gorm:"type:text" json:"reporter_email,omitempty"`
	// Evidence holds the object keys of uploaded attachments.
	Evidence pq.StringArray `gorm:"type:text[]" json:"evidence,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate fills the follow-up token and the initial status.
func (c *Case) BeforeCreate(tx *gorm.DB) (err error) {
	if c.Token == "" {
		c.Token = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusReceived
	}
	return
}

// TokenView is the representation served on the token channel. It never
// carries the numeric ID.
type TokenView struct {
	Status    Status    `json:"status"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ForToken projects the case for token-mode access.
func (c *Case) ForToken() TokenView {
	return TokenView{
		Status:    c.Status,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
