// Package handler exposes the follow-up operations over HTTP.
package handler

import (
	"context"

	"denuncia/backend/internal/attachment"
	"denuncia/backend/internal/chathub"
	"denuncia/backend/internal/followup"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"

	"go.uber.org/zap"
)

// FollowUp is the case service the handlers delegate to.
type FollowUp interface {
	CreateCase(ctx context.Context, in followup.NewCase) (*models.Case, error)
	CaseByToken(ctx context.Context, token string) (*models.Case, error)
	CaseByID(ctx context.Context, sess *session.Session, id uint) (*models.Case, error)
	ListCases(ctx context.Context, sess *session.Session, status models.Status) ([]models.Case, error)
	MessagesByToken(ctx context.Context, token string) ([]models.Message, error)
	MessagesByID(ctx context.Context, sess *session.Session, id uint) ([]models.Message, error)
	AppendByToken(ctx context.Context, token string, sess *session.Session, body string) (*models.Message, error)
	AppendByID(ctx context.Context, sess *session.Session, id uint, body string) (*models.Message, error)
	SetStatus(ctx context.Context, sess *session.Session, id uint, status models.Status) (*models.Case, error)
	Follow(ctx context.Context, sess *session.Session, id uint) (string, error)
	Follower(ctx context.Context, sess *session.Session, id uint) (string, error)
	AddEvidence(ctx context.Context, token, key string) error
	CurrentActor(sess *session.Session) policy.Actor
}

// Sessions issues, validates and revokes administrator sessions.
type Sessions interface {
	Parse(ctx context.Context, token string) (*session.Session, error)
	SignIn(ctx context.Context, admins session.AdminLookup, email, password string) (*session.Session, error)
	Revoke(ctx context.Context, s *session.Session) error
}

// Uploads hands out evidence upload URLs.
type Uploads interface {
	UploadURL(ctx context.Context, fileName string) (*attachment.Upload, error)
}

// Handler holds the dependencies of the HTTP layer.
type Handler struct {
	Cases    FollowUp
	Sessions Sessions
	Admins   session.AdminLookup
	Uploads  Uploads
	Hub      *chathub.ManagerService
	Log      *zap.Logger
}

func NewHandler(cases FollowUp, sessions Sessions, admins session.AdminLookup, uploads Uploads, hub *chathub.ManagerService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Cases:    cases,
		Sessions: sessions,
		Admins:   admins,
		Uploads:  uploads,
		Hub:      hub,
		Log:      log,
	}
}
