package task

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/focusbuddy/backend/internal/models"
)

var ErrNotFound = errors.New("task not found")

type Service struct {
	DB *gorm.DB
}

func (s *Service) ForUser(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("due_date").Find(&tasks).Error
	return tasks, err
}

func (s *Service) Current(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_current = ?", userID, true).
		Find(&tasks).Error
	return tasks, err
}

func (s *Service) Planned(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_current = ?", userID, false).
		Order("due_date").
		Find(&tasks).Error
	return tasks, err
}

// TomorrowDeadline returns planned tasks due tomorrow.
func (s *Service) TomorrowDeadline(ctx context.Context, userID uint) ([]models.Task, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 1)

	var tasks []models.Task
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_current = ? AND due_date >= ? AND due_date < ?", userID, false, start, end).
		Find(&tasks).Error
	return tasks, err
}

// Completed covers current and planned tasks alike.
func (s *Service) Completed(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Find(&tasks).Error
	return tasks, err
}

func (s *Service) Create(ctx context.Context, t *models.Task) error {
	return s.DB.WithContext(ctx).Create(t).Error
}

func (s *Service) Update(ctx context.Context, t *models.Task) error {
	return s.DB.WithContext(ctx).Save(t).Error
}

func (s *Service) ByIDAndUser(ctx context.Context, id, userID uint) (*models.Task, error) {
	var t models.Task
	err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
