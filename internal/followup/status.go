package followup

import (
	"context"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"

	"go.uber.org/zap"
)

// SetStatus moves case id to status. Only administrators on the id channel
// may do so; terminal cases and no-op transitions are rejected.
func (s *Service) SetStatus(ctx context.Context, sess *session.Session, id uint, status models.Status) (*models.Case, error) {
	if !sess.IsAdmin() {
		return nil, policy.ErrForbidden
	}
	if !status.Valid() {
		return nil, policy.Reject(policy.ReasonInvalidStatus, "unknown status "+string(status))
	}

	var previous models.Status
	updated, err := s.Storage.UpdateStatus(ctx, id, status, func(current *models.Case) error {
		previous = current.Status
		if policy.CanChangeStatus(policy.ModeID, true, current.Status, status) {
			return nil
		}
		if current.Status == status {
			return policy.Reject(policy.ReasonSameStatus, "case already has status "+string(status))
		}
		return policy.Reject(policy.ReasonTerminal, "status "+string(current.Status)+" is final")
	})
	if err != nil {
		if isRejection(err) {
			s.Log.Info("status change rejected", zap.Uint("case_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.Log.Info("case status changed",
		zap.Uint("case_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("admin", sess.Email))
	s.publish(ctx, models.CaseEvent{CaseID: id, Type: models.EventStatus, Status: status})
	return updated, nil
}

// Follow records sess as the administrator following case id and returns
// the administrator who was following it before, if any other. Following is
// informational; it does not lock the case.
func (s *Service) Follow(ctx context.Context, sess *session.Session, id uint) (string, error) {
	if _, err := s.CaseByID(ctx, sess, id); err != nil {
		return "", err
	}
	me := sess.Actor().AuthorLabel()
	prev, err := s.Storage.SetFollower(ctx, id, me)
	if err != nil {
		return "", err
	}
	if prev == me {
		return "", nil
	}
	if prev != "" {
		s.Log.Info("case taken over", zap.Uint("case_id", id), zap.String("from", prev), zap.String("to", me))
	}
	return prev, nil
}

// Follower returns the administrator currently following case id.
func (s *Service) Follower(ctx context.Context, sess *session.Session, id uint) (string, error) {
	if !sess.IsAdmin() {
		return "", policy.ErrForbidden
	}
	return s.Storage.GetFollower(ctx, id)
}
