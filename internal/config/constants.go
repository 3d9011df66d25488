package config

import "time"

const (
	// Author labels
	AnonymousAuthor = "Usuário Anônimo"
	AdminAuthor     = "Admin"

	// Messages
	MaxMessageLength     = 5000
	MaxDescriptionLength = 20000
	MinDescriptionLength = 10

	// Follow-up view
	PollInterval       = 30 * time.Second
	WarningBannerTTL   = 5 * time.Second
	FollowerTTL        = 12 * time.Hour
	DefaultSessionTTL  = 8 * time.Hour
	UploadURLExpiry    = 15 * time.Minute
	MaxEvidencePerCase = 10

	// Public endpoints
	DefaultCreateRateLimit = 5
	CreateRateWindow       = time.Hour
)
