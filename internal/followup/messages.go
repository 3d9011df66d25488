package followup

import (
	"context"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"

	"go.uber.org/zap"
)

// AppendByToken appends a message through the token channel. Without an
// administrator session the sender is the reporter and flood control
// applies; an administrator answering on the reporter's channel is exempt.
func (s *Service) AppendByToken(ctx context.Context, token string, sess *session.Session, body string) (*models.Message, error) {
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}
	c, err := s.CaseByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	actor := s.CurrentActor(sess)
	msg := &models.Message{Author: actor.AuthorLabel(), Body: body}

	locked, err := s.Storage.AppendMessage(ctx, c.ID, msg, func(current *models.Case, history []models.Message) error {
		if policy.CanSendMessage(current.Status, history, policy.ModeToken, actor.IsAdmin()) {
			return nil
		}
		if current.Status.IsTerminal() {
			return policy.Reject(policy.ReasonCaseClosed, "case is closed; no further messages are accepted")
		}
		return policy.Reject(policy.ReasonAwaitingReply, "aguarde a resposta do administrador antes de enviar outra mensagem")
	})
	if err != nil {
		if policy.Classify(err) == policy.KindFlood {
			s.Log.Info("reporter message rejected", zap.Uint("case_id", c.ID), zap.Error(err))
		}
		return nil, err
	}

	s.publish(ctx, models.CaseEvent{CaseID: locked.ID, Type: models.EventMessage, Message: msg})
	if !actor.IsAdmin() {
		s.Notifier.ReporterMessage(ctx, locked, msg)
	}
	return msg, nil
}

// AppendByID appends an administrator message through the id channel.
// Administrators are never subject to flood control.
func (s *Service) AppendByID(ctx context.Context, sess *session.Session, id uint, body string) (*models.Message, error) {
	if !sess.IsAdmin() {
		return nil, policy.ErrForbidden
	}
	body, err := validateBody(body)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{Author: sess.Actor().AuthorLabel(), Body: body}
	locked, err := s.Storage.AppendMessage(ctx, id, msg, nil)
	if err != nil {
		return nil, err
	}
	s.Log.Info("admin message appended", zap.Uint("case_id", id), zap.String("admin", sess.Email))
	s.publish(ctx, models.CaseEvent{CaseID: locked.ID, Type: models.EventMessage, Message: msg})
	return msg, nil
}
