package models

import "time"

// Message is one entry of a case transcript. Messages are append-only: they
// are never edited, reordered or deleted, and insertion order is authoritative.
type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// CaseID is the case the message belongs to. It is not serialized so the
	// token channel cannot learn the numeric case id from a transcript.
	CaseID uint `gorm:"not null;index:idx_case_msg" json:"-"`
	// Author is a free-text label: the anonymous reporter label, an
	// administrator's display name, or the generic admin label.
	Author string `gorm:"type:text;not null" json:"author"`
	// Body is the message text; never empty.
	Body string `gorm:"type:text;not null" json:"body"`
	// SentAt is when the message was stored.
	SentAt time.Time `gorm:"not null;index:idx_case_msg" json:"sent_at"`
}
