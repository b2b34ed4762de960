package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/focusbuddy/backend/internal/hash"
	"github.com/focusbuddy/backend/internal/logging"
	"github.com/focusbuddy/backend/internal/models"
	"github.com/focusbuddy/backend/internal/service/refresh"
	"github.com/focusbuddy/backend/internal/service/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already taken")
)

type Service struct {
	DB      *gorm.DB
	Tokens  *token.Service
	Refresh *refresh.Service
}

// Result is the access+refresh pair handed back after signup, signin
// or a successful rotation.
type Result struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

func (s *Service) Register(ctx context.Context, username, password, telegramID, role string) (*Result, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	var existing models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		l.Warn("register rejected", "reason", "duplicate username")
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
		TelegramID:   telegramID,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issuePair(ctx, &user)
}

func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login failed", "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, &user)
}

// issuePair mints an access token and replaces the user's refresh
// token, so a login on a second device invalidates the first one's.
func (s *Service) issuePair(ctx context.Context, user *models.User) (*Result, error) {
	access, err := s.Tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	rt, err := s.Refresh.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, AccessToken: access, RefreshToken: rt.Token}, nil
}
