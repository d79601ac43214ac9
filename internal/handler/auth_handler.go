package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/models"
	"github.com/skit-dev/sodeca-api/internal/service"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/response"
)

// CookieConfig controls how the session cookie is issued.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	cookies CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, cookies CookieConfig) *AuthHandler {
	if cookies.Name == "" {
		cookies.Name = "session"
	}
	if cookies.TTL <= 0 {
		cookies.TTL = time.Hour
	}
	return &AuthHandler{service: svc, cookies: cookies}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookies.Name, sessionID, int(h.cookies.TTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookies.Name, "", -1, "/", "", h.cookies.Secure, true)
}

// Register godoc
// @Summary Register a local account
// @Description Create an account with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	student, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"user_id": student.ID, "email": student.Email})
}

// LoginStatus godoc
// @Summary Report whether the caller holds an active session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /login [get]
func (h *AuthHandler) LoginStatus(c *gin.Context) {
	id, _ := c.Cookie(h.cookies.Name)
	session, err := h.service.CurrentSession(c.Request.Context(), id)
	if err != nil || session == nil {
		response.JSON(c, http.StatusOK, gin.H{"authenticated": false}, nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       session.UserID,
		"role":          session.Role,
	}, nil)
}

// Login godoc
// @Summary Authenticate with email and password
// @Description Open a session for a local account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	prior, _ := c.Cookie(h.cookies.Name)
	session, err := h.service.LoginLocal(c.Request.Context(), req, prior)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, session.ID)
	response.JSON(c, http.StatusOK, gin.H{"user_id": session.UserID, "role": session.Role}, nil)
}

// Logout godoc
// @Summary End the current session
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	id, _ := c.Cookie(h.cookies.Name)
	if err := h.service.Logout(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.clearSessionCookie(c)
	response.NoContent(c)
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects to the Google consent page
// @Tags Authentication
// @Success 302
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url, err := h.service.GoogleAuthURL()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback godoc
// @Summary Complete Google sign-in
// @Description Exchanges the authorization code and opens a session
// @Tags Authentication
// @Produce json
// @Param state query string true "Signed state token"
// @Param code query string true "Authorization code"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrAuthFailed, ""))
		return
	}

	session, created, err := h.service.GoogleCallback(c.Request.Context(), state, code)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, session.ID)
	response.JSON(c, http.StatusOK, gin.H{
		"user_id":     session.UserID,
		"role":        session.Role,
		"new_account": created,
	}, nil)
}
