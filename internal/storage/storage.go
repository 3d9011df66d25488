package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageGuard is evaluated inside the append transaction with the locked
// case and its current transcript. A non-nil error aborts the append.
type MessageGuard func(c *models.Case, history []models.Message) error

// StatusGuard is evaluated inside the status transaction with the locked case.
type StatusGuard func(c *models.Case) error

type Storage interface {
	CreateCase(ctx context.Context, c *models.Case) error
	GetCaseByToken(ctx context.Context, token string) (*models.Case, error)
	GetCaseByID(ctx context.Context, id uint) (*models.Case, error)
	ListCases(ctx context.Context, status models.Status) ([]models.Case, error)
	AddEvidence(ctx context.Context, caseID uint, key string, guard StatusGuard) error

	ListMessages(ctx context.Context, caseID uint) ([]models.Message, error)
	AppendMessage(ctx context.Context, caseID uint, msg *models.Message, guard MessageGuard) (*models.Case, error)
	UpdateStatus(ctx context.Context, caseID uint, status models.Status, guard StatusGuard) (*models.Case, error)

	CreateAdmin(ctx context.Context, a *models.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)

	PublishEvent(ctx context.Context, ev models.CaseEvent) error
	SetFollower(ctx context.Context, caseID uint, follower string) (string, error)
	GetFollower(ctx context.Context, caseID uint) (string, error)
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the tables.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Case{},
		&models.Message{},
		&models.Admin{},
	)
}

func (s *Service) CreateCase(ctx context.Context, c *models.Case) error {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

// GetCaseByToken finds a case by its follow-up token.
func (s *Service) GetCaseByToken(ctx context.Context, token string) (*models.Case, error) {
	var c models.Case
	err := s.DB.WithContext(ctx).Where("token = ?", token).First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Service) GetCaseByID(ctx context.Context, id uint) (*models.Case, error) {
	var c models.Case
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListCases returns cases newest first, optionally filtered by status.
func (s *Service) ListCases(ctx context.Context, status models.Status) ([]models.Case, error) {
	var cases []models.Case
	q := s.DB.WithContext(ctx).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

// AddEvidence appends an attachment key to the case once guard accepts the
// locked row, so concurrent uploads are checked against each other.
func (s *Service) AddEvidence(ctx context.Context, caseID uint, key string, guard StatusGuard) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Case
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, caseID).Error; err != nil {
			return notFound(err)
		}
		if guard != nil {
			if err := guard(&locked); err != nil {
				return err
			}
		}
		return tx.Model(&locked).
			Update("evidence", gorm.Expr("array_append(evidence, ?)", key)).Error
	})
}

// ListMessages returns the transcript of a case in insertion order.
func (s *Service) ListMessages(ctx context.Context, caseID uint) ([]models.Message, error) {
	messages := []models.Message{}
	if err := s.DB.WithContext(ctx).Where("case_id = ?", caseID).Order("id asc").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// AppendMessage stores msg after locking the case row, so concurrent appends
// to the same case see each other's result when guard runs.
func (s *Service) AppendMessage(ctx context.Context, caseID uint, msg *models.Message, guard MessageGuard) (*models.Case, error) {
	var locked models.Case
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, caseID).Error; err != nil {
			return notFound(err)
		}
		if guard != nil {
			var history []models.Message
			if err := tx.Where("case_id = ?", caseID).Order("id asc").Find(&history).Error; err != nil {
				return err
			}
			if err := guard(&locked, history); err != nil {
				return err
			}
		}
		msg.CaseID = caseID
		if msg.SentAt.IsZero() {
			msg.SentAt = time.Now().UTC()
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&locked).Update("updated_at", msg.SentAt).Error
	})
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

// UpdateStatus sets the case status after guard accepts the locked row.
func (s *Service) UpdateStatus(ctx context.Context, caseID uint, status models.Status, guard StatusGuard) (*models.Case, error) {
	var locked models.Case
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, caseID).Error; err != nil {
			return notFound(err)
		}
		if guard != nil {
			if err := guard(&locked); err != nil {
				return err
			}
		}
		if err := tx.Model(&locked).Update("status", status).Error; err != nil {
			return err
		}
		locked.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &locked, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return policy.ErrNotFound
	}
	return err
}
