package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
)

type authStudentRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	LinkGoogleAccount(ctx context.Context, email string, identity models.GoogleIdentity) error
}

type authSessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// IdentityProvider abstracts the external OAuth provider: building the
// consent redirect and exchanging the authorization code for identity claims.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	FetchIdentity(ctx context.Context, code string) (*models.GoogleIdentity, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	StateSecret string
	StateTTL    time.Duration
}

// AuthService provides registration, login and external identity use cases.
type AuthService struct {
	students  authStudentRepository
	sessions  authSessionStore
	provider  IdentityProvider
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentRepository, sessions authSessionStore, provider IdentityProvider, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.StateTTL <= 0 {
		config.StateTTL = 10 * time.Minute
	}
	return &AuthService{
		students:  students,
		sessions:  sessions,
		provider:  provider,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		config:    config,
	}
}

// Register creates a local account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please enter a valid email address and password")
	}
	if req.Password != req.ConfirmPassword {
		return nil, appErrors.Clone(appErrors.ErrValidation, "passwords do not match")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.students.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	hashStr := string(hash)
	student := &models.Student{
		Email:        email,
		PasswordHash: &hashStr,
		AuthProvider: models.AuthProviderLocal,
		Role:         models.RoleStudent,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}
	return student, nil
}

// LoginLocal authenticates with email and password and opens a session. Any
// mismatch, including an unknown email or an account using a different auth
// method, fails with the same generic message. A prior session id, if the
// caller presents one, is invalidated up front so a fresh attempt never
// rides on stale state.
func (s *AuthService) LoginLocal(ctx context.Context, req models.LoginRequest, priorSessionID string) (*models.Session, error) {
	if priorSessionID != "" {
		if err := s.sessions.Delete(ctx, priorSessionID); err != nil {
			s.logger.Warn("failed to clear prior session", zap.Error(err))
		}
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if student.AuthProvider != models.AuthProviderLocal || student.PasswordHash == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	session, err := s.openSession(ctx, student, models.AuthProviderLocal)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLogin(string(models.AuthProviderLocal))
	return session, nil
}

// CurrentSession resolves a session cookie value to its server-side record.
// An empty or unknown id yields a nil session, not an error.
func (s *AuthService) CurrentSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, nil
	}
	return session, nil
}

// Logout removes the server-side session. Safe to call with an unknown id.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// GoogleAuthURL returns the provider consent URL with a signed state token.
func (s *AuthService) GoogleAuthURL() (string, error) {
	state, err := s.newStateToken()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create state token")
	}
	return s.provider.AuthCodeURL(state), nil
}

// GoogleCallback validates the state, exchanges the code and resolves the
// identity to an account: existing external id logs in, an email match links
// the external id to the local account, otherwise a new account is created.
// Provider failures surface only as a generic authentication error.
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string) (*models.Session, bool, error) {
	if err := s.validateStateToken(state); err != nil {
		s.logger.Warn("oauth state rejected", zap.Error(err))
		return nil, false, appErrors.Clone(appErrors.ErrAuthFailed, "")
	}

	identity, err := s.provider.FetchIdentity(ctx, code)
	if err != nil {
		s.logger.Warn("oauth exchange failed", zap.Error(err))
		return nil, false, appErrors.Clone(appErrors.ErrAuthFailed, "")
	}
	if identity.Subject == "" || identity.Email == "" {
		s.logger.Warn("oauth identity incomplete")
		return nil, false, appErrors.Clone(appErrors.ErrAuthFailed, "")
	}

	student, created, err := s.resolveIdentity(ctx, identity)
	if err != nil {
		return nil, false, err
	}

	session, err := s.openSession(ctx, student, models.AuthProviderGoogle)
	if err != nil {
		return nil, false, err
	}
	s.metrics.RecordLogin(string(models.AuthProviderGoogle))
	return session, created, nil
}

func (s *AuthService) resolveIdentity(ctx context.Context, identity *models.GoogleIdentity) (*models.Student, bool, error) {
	student, err := s.students.FindByGoogleID(ctx, identity.Subject)
	if err == nil {
		return student, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	student, err = s.students.FindByEmail(ctx, email)
	if err == nil {
		if err := s.students.LinkGoogleAccount(ctx, email, *identity); err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link account")
		}
		student.GoogleID = &identity.Subject
		student.AuthProvider = models.AuthProviderGoogle
		return student, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	student = &models.Student{
		Email:          email,
		GoogleID:       &identity.Subject,
		AuthProvider:   models.AuthProviderGoogle,
		Role:           models.RoleStudent,
		ProfilePicture: optional(identity.ProfilePicture),
		FirstName:      optional(identity.FirstName),
		LastName:       optional(identity.LastName),
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}
	return student, true, nil
}

func (s *AuthService) openSession(ctx context.Context, student *models.Student, provider models.AuthProvider) (*models.Session, error) {
	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       student.ID,
		AuthProvider: provider,
		Role:         student.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open session")
	}
	return session, nil
}

func (s *AuthService) newStateToken() (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "oauth_state",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.StateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.StateSecret))
}

func (s *AuthService) validateStateToken(state string) error {
	token, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.StateSecret), nil
	})
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject != "oauth_state" {
		return fmt.Errorf("invalid state claims")
	}
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
