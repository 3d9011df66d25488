// Package followup implements the case lookup, transcript and status
// operations behind the follow-up ("Acompanhamento") flow. The policy in
// internal/policy is enforced here again, server side, inside the storage
// transactions: the client-side evaluation is only a mirror of it.
package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"denuncia/backend/internal/attachment"
	"denuncia/backend/internal/config"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/notify"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"
	"denuncia/backend/internal/storage"

	"go.uber.org/zap"
)

// Service handles the business logic for cases and their transcripts.
type Service struct {
	Storage  storage.Storage
	Notifier notify.Notifier
	Log      *zap.Logger
}

// NewService creates a new follow-up service.
func NewService(s storage.Storage, n notify.Notifier, log *zap.Logger) *Service {
	if n == nil {
		n = notify.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Storage: s, Notifier: n, Log: log}
}

// NewCase is a report as submitted by a reporter.
type NewCase struct {
	Category      models.Category
	Description   string
	Anonymous     bool
	ReporterName  string
	ReporterEmail string
	Evidence      []string
}

// CreateCase validates and stores a new report. The returned case carries
// the follow-up token, which is shown to the reporter exactly once.
func (s *Service) CreateCase(ctx context.Context, in NewCase) (*models.Case, error) {
	if err := validateNewCase(in); err != nil {
		return nil, err
	}

	c := &models.Case{
		Status:      models.StatusReceived,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Anonymous:   in.Anonymous,
		Evidence:    in.Evidence,
	}
	if !in.Anonymous {
		c.ReporterName = strings.TrimSpace(in.ReporterName)
		c.ReporterEmail = strings.TrimSpace(in.ReporterEmail)
	}

	if err := s.Storage.CreateCase(ctx, c); err != nil {
		return nil, err
	}
	s.Log.Info("case created", zap.Uint("case_id", c.ID), zap.String("category", string(c.Category)), zap.Bool("anonymous", c.Anonymous))
	s.Notifier.CaseCreated(ctx, c)
	return c, nil
}

func validateNewCase(in NewCase) error {
	if !in.Category.Valid() {
		return policy.Reject(policy.ReasonInvalidInput, "unknown category")
	}
	n := utf8.RuneCountInString(strings.TrimSpace(in.Description))
	if n < config.MinDescriptionLength || n > config.MaxDescriptionLength {
		return policy.Reject(policy.ReasonInvalidInput, fmt.Sprintf("description must have between %d and %d characters", config.MinDescriptionLength, config.MaxDescriptionLength))
	}
	if !in.Anonymous && strings.TrimSpace(in.ReporterEmail) == "" && strings.TrimSpace(in.ReporterName) == "" {
		return policy.Reject(policy.ReasonInvalidInput, "identified reports need a name or an email")
	}
	if len(in.Evidence) > config.MaxEvidencePerCase {
		return policy.Reject(policy.ReasonInvalidInput, "too many attachments")
	}
	for _, key := range in.Evidence {
		if !attachment.ValidKey(key) {
			return policy.Reject(policy.ReasonInvalidInput, "invalid attachment key")
		}
	}
	return nil
}

// CaseByToken resolves a follow-up token.
func (s *Service) CaseByToken(ctx context.Context, token string) (*models.Case, error) {
	if strings.TrimSpace(token) == "" {
		return nil, policy.ErrNotFound
	}
	return s.Storage.GetCaseByToken(ctx, token)
}

// CaseByID resolves a numeric id for an administrator.
func (s *Service) CaseByID(ctx context.Context, sess *session.Session, id uint) (*models.Case, error) {
	if !sess.IsAdmin() {
		return nil, policy.ErrForbidden
	}
	return s.Storage.GetCaseByID(ctx, id)
}

// ListCases lists cases for an administrator, optionally by status.
func (s *Service) ListCases(ctx context.Context, sess *session.Session, status models.Status) ([]models.Case, error) {
	if !sess.IsAdmin() {
		return nil, policy.ErrForbidden
	}
	if status != "" && !status.Valid() {
		return nil, policy.Reject(policy.ReasonInvalidStatus, "unknown status "+string(status))
	}
	return s.Storage.ListCases(ctx, status)
}

// MessagesByToken returns the transcript of the case behind token.
func (s *Service) MessagesByToken(ctx context.Context, token string) ([]models.Message, error) {
	c, err := s.CaseByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Storage.ListMessages(ctx, c.ID)
}

// MessagesByID returns the transcript of case id for an administrator.
func (s *Service) MessagesByID(ctx context.Context, sess *session.Session, id uint) ([]models.Message, error) {
	c, err := s.CaseByID(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.Storage.ListMessages(ctx, c.ID)
}

// CurrentActor returns who sess represents; nil is the anonymous reporter.
func (s *Service) CurrentActor(sess *session.Session) policy.Actor {
	if !sess.IsAdmin() {
		return policy.Anonymous()
	}
	return sess.Actor()
}

var errEmptyBody = policy.Reject(policy.ReasonInvalidInput, "message body is empty")

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", errEmptyBody
	}
	if utf8.RuneCountInString(body) > config.MaxMessageLength {
		return "", policy.Reject(policy.ReasonInvalidInput, fmt.Sprintf("message longer than %d characters", config.MaxMessageLength))
	}
	return body, nil
}

// AddEvidence attaches an uploaded object to the case behind token. The
// closed-case and attachment-limit checks run against the locked row.
func (s *Service) AddEvidence(ctx context.Context, token, key string) error {
	if !attachment.ValidKey(key) {
		return policy.Reject(policy.ReasonInvalidInput, "invalid attachment key")
	}
	c, err := s.CaseByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.Storage.AddEvidence(ctx, c.ID, key, func(locked *models.Case) error {
		if locked.Status.IsTerminal() {
			return policy.Reject(policy.ReasonCaseClosed, "case is closed")
		}
		if len(locked.Evidence) >= config.MaxEvidencePerCase {
			return policy.Reject(policy.ReasonInvalidInput, "too many attachments")
		}
		return nil
	})
}

func (s *Service) publish(ctx context.Context, ev models.CaseEvent) {
	if err := s.Storage.PublishEvent(ctx, ev); err != nil {
		s.Log.Warn("publish case event failed", zap.Uint("case_id", ev.CaseID), zap.String("type", ev.Type), zap.Error(err))
	}
}

func isRejection(err error) bool {
	var rej *policy.RejectedError
	return errors.As(err, &rej)
}
