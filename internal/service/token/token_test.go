package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusbuddy/backend/internal/models"
	"github.com/focusbuddy/backend/internal/tokens"
)

func newTestService() *Service {
	return &Service{Codec: &tokens.Codec{Secret: []byte("test-signing-secret")}}
}

func TestIssueAccess_Claims(t *testing.T) {
	svc := newTestService()
	user := &models.User{Username: "alice", Role: models.RoleAdmin}

	raw, err := svc.IssueAccess(user)
	require.NoError(t, err)

	claims, err := svc.Codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "ROLE_ADMIN", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.True(t, claims.ExpiresAt.Time.Equal(claims.IssuedAt.Time.Add(AccessTTL)))
}

func TestVerify(t *testing.T) {
	svc := newTestService()
	user := &models.User{Username: "alice", Role: models.RoleUser}

	raw, err := svc.IssueAccess(user)
	require.NoError(t, err)

	assert.True(t, svc.Verify(raw, user))
	assert.False(t, svc.Verify(raw, &models.User{Username: "bob", Role: models.RoleUser}))
	assert.False(t, svc.Verify("not-a-token", user))
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService()
	user := &models.User{Username: "alice", Role: models.RoleUser}

	raw, err := svc.Codec.Encode(user.Username, RoleClaim(user.Role), time.Now().Add(-AccessTTL-time.Second), AccessTTL)
	require.NoError(t, err)

	assert.False(t, svc.Verify(raw, user))
}

func TestExtractUsername(t *testing.T) {
	svc := newTestService()
	user := &models.User{Username: "alice", Role: models.RoleUser}

	raw, err := svc.IssueAccess(user)
	require.NoError(t, err)

	username, err := svc.ExtractUsername(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = svc.ExtractUsername("garbage")
	assert.ErrorIs(t, err, tokens.ErrMalformed)

	expired, err := svc.Codec.Encode("alice", "ROLE_USER", time.Now().Add(-time.Hour), time.Minute)
	require.NoError(t, err)
	_, err = svc.ExtractUsername(expired)
	assert.ErrorIs(t, err, tokens.ErrExpired)
}
