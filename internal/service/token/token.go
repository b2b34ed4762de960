package token

import (
	"strings"
	"time"

	"github.com/focusbuddy/backend/internal/models"
	"github.com/focusbuddy/backend/internal/tokens"
)

const AccessTTL = 15 * time.Minute

// Service mints and checks short-lived access tokens. It keeps no
// state beyond the signing secret inside the codec.
type Service struct {
	Codec *tokens.Codec
}

func RoleClaim(role string) string {
	return "ROLE_" + strings.ToUpper(role)
}

func (s *Service) IssueAccess(user *models.User) (string, error) {
	return s.Codec.Encode(user.Username, RoleClaim(user.Role), time.Now(), AccessTTL)
}

// Verify reports whether raw is a valid access token for user. Any
// decode failure yields false; a token exactly at its expiry instant
// counts as expired.
func (s *Service) Verify(raw string, user *models.User) bool {
	claims, err := s.Codec.Decode(raw)
	if err != nil {
		return false
	}
	if claims.Subject != user.Username {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.After(time.Now())
}

// ExtractUsername returns the token subject, propagating codec errors
// unchanged so callers decide whether a bad token is anonymous or fatal.
func (s *Service) ExtractUsername(raw string) (string, error) {
	claims, err := s.Codec.Decode(raw)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
