package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/oauth"
)

type authAccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateDarkMode(ctx context.Context, id string, darkMode bool) error
	CountEnrolled(ctx context.Context, accountID string) (int, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	Allowlist  []config.AdminCredential
}

// AuthService provides signup, login and session use cases. The admin
// allow-list is bcrypt-hashed once at construction and never mutated, so
// concurrent logins read it without locking.
type AuthService struct {
	repo      authAccountRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	adminHash map[string]string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authAccountRepository, validate *validator.Validate, logger *zap.Logger, cfg AuthConfig) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}

	adminHash := make(map[string]string, len(cfg.Allowlist))
	for _, cred := range cfg.Allowlist {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin allow-list entry %q: %w", cred.Username, err)
		}
		adminHash[cred.Username] = string(hash)
	}

	return &AuthService{repo: repo, validator: validate, logger: logger, config: cfg, adminHash: adminHash}, nil
}

// Signup registers a new user account and returns an issued session.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "User already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	hashStr := string(hash)
	account := &models.Account{
		Username:     req.Username,
		PasswordHash: &hashStr,
		Role:         models.RoleUser,
		DarkMode:     false,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.logger.Info("account created", zap.String("username", account.Username))

	return s.issueSession(account, models.RoleUser)
}

// Login authenticates an account and issues a session carrying the
// account's stored role. Asking for an admin session with ?role=admin
// additionally requires the account to match the startup allow-list; a
// plain user asking for admin is silently issued a user session instead.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, requestedRole models.Role) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if account.PasswordHash == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
	}

	// The session carries the stored role. The allow-list only gates
	// admin-requested sessions; a user account asking for admin simply
	// keeps its user role.
	if requestedRole == models.RoleAdmin && account.Role == models.RoleAdmin && !s.adminAllowed(req.Username, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Access denied: not an authorized admin")
	}

	return s.issueSession(account, account.Role)
}

// LoginWithGoogle finds or creates the account tied to an OAuth profile
// and returns an issued session. OAuth identities are always plain users.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile *oauth.Profile) (*models.AuthResponse, error) {
	account, err := s.repo.FindByGoogleID(ctx, profile.Subject)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
		}

		username := profile.Email
		if username == "" {
			username = profile.DisplayName
		}
		googleID := profile.Subject
		account = &models.Account{
			Username: username,
			GoogleID: &googleID,
			Role:     models.RoleUser,
			DarkMode: false,
		}
		if err := s.repo.Create(ctx, account); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
		}
		s.logger.Info("oauth account created", zap.String("username", account.Username))
	}

	return s.issueSession(account, account.Role)
}

// DarkMode returns the caller's stored preference.
func (s *AuthService) DarkMode(ctx context.Context, accountID string) (bool, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	return account.DarkMode, nil
}

// SetDarkMode persists the caller's preference.
func (s *AuthService) SetDarkMode(ctx context.Context, accountID string, darkMode bool) error {
	if _, err := s.findAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.repo.UpdateDarkMode(ctx, accountID, darkMode); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update dark mode")
	}
	return nil
}

// Profile returns the caller's account summary.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*models.Profile, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.repo.CountEnrolled(ctx, accountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	return &models.Profile{
		Username:            account.Username,
		Role:                account.Role,
		DarkMode:            account.DarkMode,
		EnrolledCourseCount: enrolled,
	}, nil
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "Token is not valid")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Token is not valid")
	}

	return claims, nil
}

func (s *AuthService) findAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	return account, nil
}

func (s *AuthService) adminAllowed(username, password string) bool {
	hash, ok := s.adminHash[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) issueSession(account *models.Account, role models.Role) (*models.AuthResponse, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		AccountID: account.ID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.AuthResponse{Token: signed, Role: role, DarkMode: account.DarkMode}, nil
}
