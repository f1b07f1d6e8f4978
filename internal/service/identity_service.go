package service

import (
	"context"
	"strings"

	"marketplace/internal/apperr"
	"marketplace/internal/store"
	"marketplace/internal/util"

	"go.uber.org/zap"
)

// IdentityService registers customers and opens customer and admin sessions.
// Passwords are stored and compared as plain text.
type IdentityService struct {
	store       *store.Store
	sessions    *SessionManager
	adminSecret string
	logger      *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(store *store.Store, sessions *SessionManager, adminSecret string) *IdentityService {
	return &IdentityService{
		store:       store,
		sessions:    sessions,
		adminSecret: adminSecret,
		logger:      util.ComponentLogger("identity"),
	}
}

// Register creates a customer account
func (s *IdentityService) Register(ctx context.Context, username, password string) error {
	ctx, span := util.StartSpan(ctx, "IdentityService.Register")
	defer span.End()

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return apperr.Validation("Register", "username and password are required")
	}

	ok, err := s.store.RegisterUser(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict("Register", "username %q already exists", username)
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("Customer registered", zap.String("username", username))
	return nil
}

// Login opens a customer session when the credentials match
func (s *IdentityService) Login(ctx context.Context, username, password string) (*Session, error) {
	_, span := util.StartSpan(ctx, "IdentityService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if !s.store.ValidateUser(username, password) {
		util.LoginAttemptsTotal.WithLabelValues("customer", "denied").Inc()
		s.logger.Warn("Customer login denied", zap.String("username", username))
		return nil, apperr.Unauthorized("Login", "invalid username or password")
	}

	util.LoginAttemptsTotal.WithLabelValues("customer", "granted").Inc()
	sess := s.sessions.start(username, false)
	s.logger.Info("Customer logged in", zap.String("username", username))
	return sess, nil
}

// AdminLogin opens an admin session when secret matches the shared admin secret
func (s *IdentityService) AdminLogin(ctx context.Context, secret string) (*Session, error) {
	_, span := util.StartSpan(ctx, "IdentityService.AdminLogin")
	defer span.End()

	if s.adminSecret == "" || secret != s.adminSecret {
		util.LoginAttemptsTotal.WithLabelValues("admin", "denied").Inc()
		s.logger.Warn("Admin login denied")
		return nil, apperr.Unauthorized("AdminLogin", "wrong admin password")
	}

	util.LoginAttemptsTotal.WithLabelValues("admin", "granted").Inc()
	s.logger.Info("Admin access granted")
	return s.sessions.start("", true), nil
}

// Session resolves a session token
func (s *IdentityService) Session(token string) (*Session, error) {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return nil, apperr.Unauthorized("Session", "unknown or expired session")
	}
	return sess, nil
}

// Logout ends the session for token
func (s *IdentityService) Logout(token string) error {
	if !s.sessions.End(token) {
		return apperr.NotFound("Logout", "session not found")
	}
	return nil
}
