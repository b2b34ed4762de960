package habit

import (
	"context"

	"gorm.io/gorm"

	"github.com/focusbuddy/backend/internal/models"
)

type Service struct {
	DB *gorm.DB
}

func (s *Service) ForUser(ctx context.Context, userID uint) ([]models.Habit, error) {
	var habits []models.Habit
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&habits).Error
	return habits, err
}

func (s *Service) ByType(ctx context.Context, userID uint, habitType string) ([]models.Habit, error) {
	var habits []models.Habit
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, habitType).
		Find(&habits).Error
	return habits, err
}

func (s *Service) Create(ctx context.Context, h *models.Habit) error {
	return s.DB.WithContext(ctx).Create(h).Error
}
