package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
)

type stubAccountRepo struct {
	account *models.Account
}

func (s *stubAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if s.account != nil && s.account.Username == username {
		return s.account, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if s.account != nil && s.account.ID == id {
		return s.account, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubAccountRepo) FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error) {
	return nil, sql.ErrNoRows
}

func (s *stubAccountRepo) Create(ctx context.Context, account *models.Account) error { return nil }

func (s *stubAccountRepo) UpdateDarkMode(ctx context.Context, id string, darkMode bool) error {
	return nil
}

func (s *stubAccountRepo) CountEnrolled(ctx context.Context, accountID string) (int, error) {
	return 0, nil
}

func newTestAuthService(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashStr := string(hash)
	repo := &stubAccountRepo{account: &models.Account{ID: "u1", Username: "alice", PasswordHash: &hashStr, Role: models.RoleUser}}

	svc, err := service.NewAuthService(repo, nil, zap.NewNop(), service.AuthConfig{Secret: "secret", Expiration: time.Hour, Issuer: "coursedeck"})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "hunter22"}, models.RoleUser)
	require.NoError(t, err)
	return svc, res.Token
}

func runProtected(svc *service.AuthService, token string, extra ...gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"accountId": claims.AccountID})
	})
	r.GET("/protected", handlers...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTMissingToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	rec := runProtected(svc, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No token, authorization denied", body["message"])
}

func TestJWTInvalidToken(t *testing.T) {
	svc, token := newTestAuthService(t)

	rec := runProtected(svc, token+"broken")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTValidTokenSetsClaims(t *testing.T) {
	svc, token := newTestAuthService(t)

	rec := runProtected(svc, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["accountId"])
}

func TestRequireRolesBlocksWrongRole(t *testing.T) {
	svc, token := newTestAuthService(t)

	rec := runProtected(svc, token, RequireRoles(models.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	svc, token := newTestAuthService(t)

	rec := runProtected(svc, token, RequireRoles(models.RoleUser))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
