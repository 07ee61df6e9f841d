package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/oauth"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service     *service.AuthService
	google      *oauth.GoogleProvider
	frontendURL string
	logger      *zap.Logger
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, google *oauth.GoogleProvider, frontendURL string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: svc, google: google, frontendURL: frontendURL, logger: logger}
}

// Signup godoc
// @Summary Register a new user
// @Description Create a user account and issue a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "Signup payload"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} map[string]string
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}

	res, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Login godoc
// @Summary Authenticate an account
// @Description Authenticate by username and password; ?role=admin requests an admin session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param role query string false "Requested role" Enums(user, admin)
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	requestedRole := models.Role(c.DefaultQuery("role", string(models.RoleUser)))
	if !requestedRole.Valid() {
		requestedRole = models.RoleUser
	}

	res, err := h.service.Login(c.Request.Context(), req, requestedRole)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// GoogleLogin godoc
// @Summary Start the Google OAuth flow
// @Description Redirect the browser to the Google consent screen
// @Tags Authentication
// @Success 307
// @Failure 500 {object} map[string]string
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil || !h.google.Configured() {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "Google login is not configured"))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(uuid.NewString()))
}

// GoogleCallback godoc
// @Summary Complete the Google OAuth flow
// @Description Exchange the authorization code and redirect back to the frontend with a session token
// @Tags Authentication
// @Success 307
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil || !h.google.Configured() {
		h.redirectAuthError(c, "server_error")
		return
	}

	code := c.Query("code")
	if code == "" || c.Query("error") != "" {
		h.redirectAuthError(c, "auth_failed")
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("google code exchange failed", zap.Error(err))
		h.redirectAuthError(c, "server_error")
		return
	}

	session, err := h.service.LoginWithGoogle(c.Request.Context(), profile)
	if err != nil {
		h.logger.Error("google login failed", zap.Error(err))
		h.redirectAuthError(c, "server_error")
		return
	}

	target := "/user"
	if session.Role == models.RoleAdmin {
		target = "/dashboard"
	}

	params := url.Values{
		"token":    {session.Token},
		"role":     {string(session.Role)},
		"darkMode": {fmt.Sprintf("%t", session.DarkMode)},
	}
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s%s?%s", h.frontendURL, target, params.Encode()))
}

func (h *AuthHandler) redirectAuthError(c *gin.Context, reason string) {
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/auth?error=%s", h.frontendURL, reason))
}

// GetDarkMode godoc
// @Summary Read the dark-mode preference
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.DarkModeRequest
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /auth/dark-mode [get]
func (h *AuthHandler) GetDarkMode(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	darkMode, err := h.service.DarkMode(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"darkMode": darkMode})
}

// SetDarkMode godoc
// @Summary Update the dark-mode preference
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.DarkModeRequest true "Preference"
// @Success 200 {object} models.DarkModeRequest
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /auth/dark-mode [put]
func (h *AuthHandler) SetDarkMode(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.DarkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dark mode payload"))
		return
	}

	if err := h.service.SetDarkMode(c.Request.Context(), claims.AccountID, req.DarkMode); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"darkMode": req.DarkMode})
}

// Profile godoc
// @Summary Current account summary
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string
// @Security TokenAuth
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}
