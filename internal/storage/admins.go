package storage

import (
	"context"
	"fmt"
	"strings"

	"denuncia/backend/internal/models"
)

// CreateAdmin stores a new administrator account.
func (s *Service) CreateAdmin(ctx context.Context, a *models.Admin) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create admin %s: %w", a.Email, err)
	}
	return nil
}

func (s *Service) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Service) GetAdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
