package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/focusbuddy/backend/internal/hash"
	"github.com/focusbuddy/backend/internal/models"
)

type Service struct {
	DB *gorm.DB
}

type UpdateProfile struct {
	Username   string
	TelegramID string
	Password   string
}

func (s *Service) Update(ctx context.Context, current *models.User, upd UpdateProfile) (*models.User, error) {
	if upd.Username != "" {
		current.Username = upd.Username
	}
	current.TelegramID = upd.TelegramID
	if upd.Password != "" {
		pwHash, err := hash.HashPassword(upd.Password)
		if err != nil {
			return nil, err
		}
		current.PasswordHash = pwHash
	}
	if err := s.DB.WithContext(ctx).Save(current).Error; err != nil {
		return nil, err
	}
	return current, nil
}

func (s *Service) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).Find(&users).Error
	return users, err
}

// Delete removes the user and everything it owns in one transaction.
func (s *Service) Delete(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.Habit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(u).Error
	})
}
