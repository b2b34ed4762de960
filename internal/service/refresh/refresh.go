package refresh

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/focusbuddy/backend/internal/logging"
	"github.com/focusbuddy/backend/internal/models"
	"github.com/focusbuddy/backend/internal/service/token"
)

var (
	ErrNotFound = errors.New("refresh token not found")
	ErrExpired  = errors.New("refresh token expired")
)

const DefaultTTL = 7 * 24 * time.Hour

// Service owns the single live refresh token of each user and rotates
// it on every redemption.
type Service struct {
	DB     *gorm.DB
	Tokens *token.Service
	TTL    time.Duration
}

type Pair struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	RefreshExp   time.Time
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

// Create replaces whatever refresh token the user currently holds with
// a fresh opaque value. The write is a single upsert against the unique
// user_id index, so two concurrent rotations for the same user collapse
// to one surviving row written by whichever statement commits last.
func (s *Service) Create(ctx context.Context, user *models.User) (*models.RefreshToken, error) {
	rt := models.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl()),
	}

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at"}),
	}).Create(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// FindByToken does an exact-match lookup of the opaque value.
func (s *Service) FindByToken(ctx context.Context, value string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := s.DB.WithContext(ctx).Where("token = ?", value).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// IsExpired treats a token whose expiry equals the current instant as
// still redeemable.
func (s *Service) IsExpired(rt *models.RefreshToken) bool {
	return rt.ExpiresAt.Before(time.Now())
}

// DeleteByUser removes the user's row if present; absent rows are a no-op.
func (s *Service) DeleteByUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error
}

// Rotate redeems a presented refresh token: the stored row must exist
// and be unexpired, after which the old token is invalidated and a new
// access+refresh pair is minted for the owner. An expired token demands
// a full re-login, never a retry.
func (s *Service) Rotate(ctx context.Context, presented string) (*Pair, error) {
	l := logging.FromContext(ctx).With("svc", "refresh.rotate")

	stored, err := s.FindByToken(ctx, presented)
	if err != nil {
		return nil, err
	}
	if s.IsExpired(stored) {
		l.Warn("rotation rejected", "reason", "expired", "user_id", stored.UserID)
		return nil, ErrExpired
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, stored.UserID).Error; err != nil {
		return nil, err
	}

	access, err := s.Tokens.IssueAccess(&user)
	if err != nil {
		return nil, err
	}

	fresh, err := s.Create(ctx, &user)
	if err != nil {
		return nil, err
	}

	return &Pair{
		User:         &user,
		AccessToken:  access,
		RefreshToken: fresh.Token,
		RefreshExp:   fresh.ExpiresAt,
	}, nil
}
