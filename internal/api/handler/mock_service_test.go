package handler_test

import (
	"context"
	"time"

	"denuncia/backend/internal/attachment"
	"denuncia/backend/internal/followup"
	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"

	"github.com/stretchr/testify/mock"
)

type MockFollowUp struct {
	mock.Mock
}

func (m *MockFollowUp) CreateCase(ctx context.Context, in followup.NewCase) (*models.Case, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockFollowUp) CaseByToken(ctx context.Context, token string) (*models.Case, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockFollowUp) CaseByID(ctx context.Context, sess *session.Session, id uint) (*models.Case, error) {
	args := m.Called(sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockFollowUp) ListCases(ctx context.Context, sess *session.Session, status models.Status) ([]models.Case, error) {
	args := m.Called(sess, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Case), args.Error(1)
}

func (m *MockFollowUp) MessagesByToken(ctx context.Context, token string) ([]models.Message, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockFollowUp) MessagesByID(ctx context.Context, sess *session.Session, id uint) ([]models.Message, error) {
	args := m.Called(sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockFollowUp) AppendByToken(ctx context.Context, token string, sess *session.Session, body string) (*models.Message, error) {
	args := m.Called(token, sess, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockFollowUp) AppendByID(ctx context.Context, sess *session.Session, id uint, body string) (*models.Message, error) {
	args := m.Called(sess, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockFollowUp) SetStatus(ctx context.Context, sess *session.Session, id uint, status models.Status) (*models.Case, error) {
	args := m.Called(sess, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockFollowUp) Follow(ctx context.Context, sess *session.Session, id uint) (string, error) {
	args := m.Called(sess, id)
	return args.String(0), args.Error(1)
}

func (m *MockFollowUp) Follower(ctx context.Context, sess *session.Session, id uint) (string, error) {
	args := m.Called(sess, id)
	return args.String(0), args.Error(1)
}

func (m *MockFollowUp) AddEvidence(ctx context.Context, token, key string) error {
	return m.Called(token, key).Error(0)
}

func (m *MockFollowUp) CurrentActor(sess *session.Session) policy.Actor {
	if !sess.IsAdmin() {
		return policy.Anonymous()
	}
	return sess.Actor()
}

type MockUploads struct {
	mock.Mock
}

func (m *MockUploads) UploadURL(ctx context.Context, fileName string) (*attachment.Upload, error) {
	args := m.Called(fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attachment.Upload), args.Error(1)
}

type MockAdmins struct {
	mock.Mock
}

func (m *MockAdmins) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

type memoryRevocations struct {
	revoked map[string]bool
}

func (r *memoryRevocations) RevokeSession(ctx context.Context, id string, _ time.Duration) error {
	r.revoked[id] = true
	return nil
}

func (r *memoryRevocations) IsSessionRevoked(ctx context.Context, id string) (bool, error) {
	return r.revoked[id], nil
}
