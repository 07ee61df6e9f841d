package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/oauth"
)

type mockAccountRepo struct {
	accounts      map[string]*models.Account
	enrolledCount int
	findErr       error
	createErr     error
	created       []*models.Account
	darkModeSet   *bool
}

func newMockAccountRepo(accounts ...*models.Account) *mockAccountRepo {
	m := &mockAccountRepo{accounts: make(map[string]*models.Account)}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.accounts {
		if a.GoogleID != nil && *a.GoogleID == googleID {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	if account.ID == "" {
		account.ID = "acc-" + account.Username
	}
	m.accounts[account.ID] = account
	m.created = append(m.created, account)
	return nil
}

func (m *mockAccountRepo) UpdateDarkMode(ctx context.Context, id string, darkMode bool) error {
	m.darkModeSet = &darkMode
	if a, ok := m.accounts[id]; ok {
		a.DarkMode = darkMode
	}
	return nil
}

func (m *mockAccountRepo) CountEnrolled(ctx context.Context, accountID string) (int, error) {
	return m.enrolledCount, nil
}

func newAuthService(t *testing.T, repo *mockAccountRepo, allowlist ...config.AdminCredential) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "secret",
		Expiration: time.Hour,
		Issuer:     "coursedeck",
		Allowlist:  allowlist,
	})
	require.NoError(t, err)
	return svc
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	str := string(hash)
	return &str
}

func TestAuthServiceSignup(t *testing.T) {
	repo := newMockAccountRepo()
	svc := newAuthService(t, repo)

	res, err := svc.Signup(context.Background(), models.SignupRequest{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleUser, res.Role)
	assert.False(t, res.DarkMode)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.RoleUser, repo.created[0].Role)
	require.NotNil(t, repo.created[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.created[0].PasswordHash), []byte("hunter22")))

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, repo.created[0].ID, claims.AccountID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuthServiceSignupDuplicateUsername(t *testing.T) {
	existing := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "pw123456"), Role: models.RoleUser}
	svc := newAuthService(t, newMockAccountRepo(existing))

	_, err := svc.Signup(context.Background(), models.SignupRequest{Username: "alice", Password: "hunter22"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "User already exists", appErr.Message)
}

func TestAuthServiceSignupRejectsShortPassword(t *testing.T) {
	svc := newAuthService(t, newMockAccountRepo())

	_, err := svc.Signup(context.Background(), models.SignupRequest{Username: "alice", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	account := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "hunter22"), Role: models.RoleUser, DarkMode: true}
	svc := newAuthService(t, newMockAccountRepo(account))

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "hunter22"}, models.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleUser, res.Role)
	assert.True(t, res.DarkMode)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	account := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "hunter22"), Role: models.RoleUser}
	svc := newAuthService(t, newMockAccountRepo(account))

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "wrong"}, models.RoleUser)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestAuthServiceLoginUnknownUsername(t *testing.T) {
	svc := newAuthService(t, newMockAccountRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"}, models.RoleUser)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestAuthServiceLoginOAuthOnlyAccountHasNoPassword(t *testing.T) {
	googleID := "goog-1"
	account := &models.Account{ID: "u1", Username: "alice@example.com", GoogleID: &googleID, Role: models.RoleUser}
	svc := newAuthService(t, newMockAccountRepo(account))

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice@example.com", Password: "anything"}, models.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", appErrors.FromError(err).Message)
}

func TestAuthServiceAdminLoginAllowlisted(t *testing.T) {
	account := &models.Account{ID: "a1", Username: "admin1", PasswordHash: hashOf(t, "adminpass1"), Role: models.RoleAdmin}
	svc := newAuthService(t, newMockAccountRepo(account), config.AdminCredential{Username: "admin1", Password: "adminpass1"})

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin1", Password: "adminpass1"}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceAdminLoginOutsideAllowlist(t *testing.T) {
	account := &models.Account{ID: "a2", Username: "rogue", PasswordHash: hashOf(t, "pw123456"), Role: models.RoleAdmin}
	svc := newAuthService(t, newMockAccountRepo(account), config.AdminCredential{Username: "admin1", Password: "adminpass1"})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "rogue", Password: "pw123456"}, models.RoleAdmin)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
}

func TestAuthServiceAdminLoginDefaultRoleKeepsAdminRole(t *testing.T) {
	account := &models.Account{ID: "a1", Username: "admin1", PasswordHash: hashOf(t, "adminpass1"), Role: models.RoleAdmin}
	svc := newAuthService(t, newMockAccountRepo(account), config.AdminCredential{Username: "admin1", Password: "adminpass1"})

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin1", Password: "adminpass1"}, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceAdminLoginDefaultRoleSkipsAllowlistGate(t *testing.T) {
	account := &models.Account{ID: "a2", Username: "rogue", PasswordHash: hashOf(t, "pw123456"), Role: models.RoleAdmin}
	svc := newAuthService(t, newMockAccountRepo(account), config.AdminCredential{Username: "admin1", Password: "adminpass1"})

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "rogue", Password: "pw123456"}, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
}

func TestAuthServiceUserRequestingAdminIsDowngraded(t *testing.T) {
	account := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "hunter22"), Role: models.RoleUser}
	svc := newAuthService(t, newMockAccountRepo(account), config.AdminCredential{Username: "admin1", Password: "adminpass1"})

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "hunter22"}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.Role)
}

func TestAuthServiceGoogleLoginCreatesAccount(t *testing.T) {
	repo := newMockAccountRepo()
	svc := newAuthService(t, repo)

	res, err := svc.LoginWithGoogle(context.Background(), &oauth.Profile{Subject: "goog-9", Email: "bob@example.com", DisplayName: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.Role)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "bob@example.com", repo.created[0].Username)
	assert.Nil(t, repo.created[0].PasswordHash)

	again, err := svc.LoginWithGoogle(context.Background(), &oauth.Profile{Subject: "goog-9", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, again.Token)
	assert.Len(t, repo.created, 1)
}

func TestAuthServiceProfile(t *testing.T) {
	account := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "hunter22"), Role: models.RoleUser, DarkMode: true}
	repo := newMockAccountRepo(account)
	repo.enrolledCount = 3
	svc := newAuthService(t, repo)

	profile, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, models.RoleUser, profile.Role)
	assert.True(t, profile.DarkMode)
	assert.Equal(t, 3, profile.EnrolledCourseCount)
}

func TestAuthServiceDarkModeRoundTrip(t *testing.T) {
	account := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "hunter22"), Role: models.RoleUser}
	repo := newMockAccountRepo(account)
	svc := newAuthService(t, repo)

	require.NoError(t, svc.SetDarkMode(context.Background(), "u1", true))
	require.NotNil(t, repo.darkModeSet)
	assert.True(t, *repo.darkModeSet)

	darkMode, err := svc.DarkMode(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, darkMode)
}

func TestAuthServiceDarkModeUnknownAccount(t *testing.T) {
	svc := newAuthService(t, newMockAccountRepo())

	_, err := svc.DarkMode(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	account := &models.Account{ID: "u1", Username: "alice", PasswordHash: hashOf(t, "hunter22"), Role: models.RoleUser}
	svc := newAuthService(t, newMockAccountRepo(account))

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "hunter22"}, models.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token + "x")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}
