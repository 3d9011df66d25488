package followup_test

import (
	"context"
	"time"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage runs the guards it receives against the case and history
// configured with On(...).Return(...), the way the real transaction would.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateCase(ctx context.Context, c *models.Case) error {
	args := m.Called(c)
	if args.Error(0) == nil && c.ID == 0 {
		c.ID = 1
		_ = c.BeforeCreate(nil)
	}
	return args.Error(0)
}

func (m *MockStorage) GetCaseByToken(ctx context.Context, token string) (*models.Case, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockStorage) GetCaseByID(ctx context.Context, id uint) (*models.Case, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockStorage) ListCases(ctx context.Context, status models.Status) ([]models.Case, error) {
	args := m.Called(status)
	return args.Get(0).([]models.Case), args.Error(1)
}

// AddEvidence expects Return(lockedCase, err).
func (m *MockStorage) AddEvidence(ctx context.Context, caseID uint, key string, guard storage.StatusGuard) error {
	args := m.Called(caseID, key)
	if err := args.Error(1); err != nil {
		return err
	}
	if guard != nil {
		if err := guard(args.Get(0).(*models.Case)); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockStorage) ListMessages(ctx context.Context, caseID uint) ([]models.Message, error) {
	args := m.Called(caseID)
	return args.Get(0).([]models.Message), args.Error(1)
}

// AppendMessage expects Return(lockedCase, history, err).
func (m *MockStorage) AppendMessage(ctx context.Context, caseID uint, msg *models.Message, guard storage.MessageGuard) (*models.Case, error) {
	args := m.Called(caseID, msg)
	if err := args.Error(2); err != nil {
		return nil, err
	}
	c := args.Get(0).(*models.Case)
	if guard != nil {
		history, _ := args.Get(1).([]models.Message)
		if err := guard(c, history); err != nil {
			return nil, err
		}
	}
	msg.CaseID = caseID
	msg.SentAt = time.Now()
	return c, nil
}

// UpdateStatus expects Return(lockedCase, err).
func (m *MockStorage) UpdateStatus(ctx context.Context, caseID uint, status models.Status, guard storage.StatusGuard) (*models.Case, error) {
	args := m.Called(caseID, status)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	c := *args.Get(0).(*models.Case)
	if guard != nil {
		if err := guard(&c); err != nil {
			return nil, err
		}
	}
	c.Status = status
	return &c, nil
}

func (m *MockStorage) CreateAdmin(ctx context.Context, a *models.Admin) error {
	return m.Called(a).Error(0)
}

func (m *MockStorage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockStorage) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockStorage) PublishEvent(ctx context.Context, ev models.CaseEvent) error {
	return m.Called(ev).Error(0)
}

func (m *MockStorage) SetFollower(ctx context.Context, caseID uint, follower string) (string, error) {
	args := m.Called(caseID, follower)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GetFollower(ctx context.Context, caseID uint) (string, error) {
	args := m.Called(caseID)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	return m.Called(sessionID, ttl).Error(0)
}

func (m *MockStorage) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(sessionID)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) CaseCreated(ctx context.Context, c *models.Case) {
	m.Called(c)
}

func (m *MockNotifier) ReporterMessage(ctx context.Context, c *models.Case, msg *models.Message) {
	m.Called(c, msg)
}
