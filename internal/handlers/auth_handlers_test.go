package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
	"github.com/focusbuddy/backend/internal/models"
	"github.com/focusbuddy/backend/internal/mykafka"
	authsvc "github.com/focusbuddy/backend/internal/service/auth"
	"github.com/focusbuddy/backend/internal/service/refresh"
	"github.com/focusbuddy/backend/internal/service/token"
	"github.com/focusbuddy/backend/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Task{}, &models.Habit{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	db := initTestDB(t)
	tokenSvc := &token.Service{Codec: &tokens.Codec{Secret: []byte("test-signing-secret")}}
	refreshSvc := &refresh.Service{DB: db, Tokens: tokenSvc}
	return &AuthHandler{
		Auth:     &authsvc.Service{DB: db, Tokens: tokenSvc, Refresh: refreshSvc},
		Refresh:  refreshSvc,
		Producer: &mykafka.Producer{},
	}, db
}

func doJSON(t *testing.T, method, path string, payload interface{}) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestSignup(t *testing.T) {
	h, _ := newAuthHandler(t)

	payload := map[string]string{"username": "alice", "password": "pw1"}
	rec, c := doJSON(t, http.MethodPost, "/api/v1/auth/signup", payload)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "user registered", resp["message"])
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])

	_, cDup := doJSON(t, http.MethodPost, "/api/v1/auth/signup", payload)
	err := h.Signup(cDup)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSignup_MissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	_, c := doJSON(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{"username": "alice"})
	err := h.Signup(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSignin(t *testing.T) {
	h, _ := newAuthHandler(t)

	signup := map[string]string{"username": "alice", "password": "pw1"}
	recUp, cUp := doJSON(t, http.MethodPost, "/api/v1/auth/signup", signup)
	require.NoError(t, h.Signup(cUp))
	require.Equal(t, http.StatusOK, recUp.Code)

	rec, c := doJSON(t, http.MethodPost, "/api/v1/auth/signin", signup)
	require.NoError(t, h.Signin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])

	bad := map[string]string{"username": "alice", "password": "nope"}
	_, cBad := doJSON(t, http.MethodPost, "/api/v1/auth/signin", bad)
	err := h.Signin(cBad)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRefreshFlow(t *testing.T) {
	h, _ := newAuthHandler(t)

	signup := map[string]string{"username": "alice", "password": "pw1"}
	recUp, cUp := doJSON(t, http.MethodPost, "/api/v1/auth/signup", signup)
	require.NoError(t, h.Signup(cUp))

	var up map[string]string
	require.NoError(t, json.Unmarshal(recUp.Body.Bytes(), &up))
	r1 := up["refresh_token"]

	rec, c := doJSON(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": r1})
	require.NoError(t, h.RefreshToken(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])
	require.NotEmpty(t, resp["refresh_token"])
	require.NotEqual(t, r1, resp["refresh_token"])

	// the redeemed token cannot be replayed
	_, cReplay := doJSON(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": r1})
	err := h.RefreshToken(cReplay)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestRefresh_Expired(t *testing.T) {
	h, db := newAuthHandler(t)

	user := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	stale := models.RefreshToken{Token: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, db.Create(&stale).Error)

	_, c := doJSON(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": "stale"})
	err := h.RefreshToken(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestLogout(t *testing.T) {
	h, db := newAuthHandler(t)

	signup := map[string]string{"username": "alice", "password": "pw1"}
	recUp, cUp := doJSON(t, http.MethodPost, "/api/v1/auth/signup", signup)
	require.NoError(t, h.Signup(cUp))
	require.Equal(t, http.StatusOK, recUp.Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)

	rec, c := doJSON(t, http.MethodPost, "/api/v1/auth/logout", nil)
	mwauth.SetCurrentUser(c, &user)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestLogout_Unauthenticated(t *testing.T) {
	h, _ := newAuthHandler(t)

	_, c := doJSON(t, http.MethodPost, "/api/v1/auth/logout", nil)
	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
