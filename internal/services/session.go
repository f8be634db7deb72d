package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"fleet-client/internal/cache"
	"fleet-client/internal/domain"
	"fleet-client/internal/gateway"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/store"
)

// Session owns the signed-in user, the bearer token and app settings, and
// keeps them in the device cache across restarts.
type Session struct {
	auth   gateway.Auth
	cache  *cache.Cache
	ui     *store.UIStore
	logger *slog.Logger

	mu       sync.RWMutex
	token    string
	user     *domain.User
	settings domain.AppSettings
}

func NewSession(auth gateway.Auth, c *cache.Cache, ui *store.UIStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		auth:     auth,
		cache:    c,
		ui:       ui,
		logger:   logger.With("component", "session"),
		settings: domain.DefaultAppSettings(),
	}
}

// Token is the gateway's token source. Safe on a nil Session.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) Settings() domain.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Session) SignedIn() bool { return s.Token() != "" }

// Rehydrate restores token, user and settings from the cache. It reports
// whether a token was found.
func (s *Session) Rehydrate(ctx context.Context) bool {
	token, hasToken := s.cache.GetUserToken(ctx)
	user, hasUser := s.cache.GetUserData(ctx)
	settings, hasSettings := s.cache.GetAppSettings(ctx)
	if !hasSettings {
		settings = domain.DefaultAppSettings()
	}

	s.mu.Lock()
	if hasToken {
		s.token = token
	}
	if hasUser {
		s.user = &user
	}
	s.settings = settings
	s.mu.Unlock()

	s.applySettings(settings)
	s.logger.InfoContext(ctx, "session rehydrated", "signed_in", hasToken, "has_user", hasUser)
	return hasToken && token != ""
}

// Login exchanges credentials for a session and persists it.
func (s *Session) Login(ctx context.Context, email, password string) gateway.Result[domain.AuthSession] {
	res := s.auth.Login(ctx, domain.Credentials{Email: strings.TrimSpace(email), Password: password})
	sess, ok := res.Unwrap()
	if !ok {
		s.ui.Notify("Login failed", res.Message(), domain.SeverityError)
		return res
	}
	if sess.Token == "" {
		s.ui.Notify("Login failed", "Login failed", domain.SeverityError)
		return gateway.Failure[domain.AuthSession]("Login failed")
	}

	s.mu.Lock()
	s.token = sess.Token
	u := sess.User
	s.user = &u
	s.mu.Unlock()

	if !s.cache.SaveUserToken(ctx, sess.Token) || !s.cache.SaveUserData(ctx, sess.User) {
		s.ui.Notify("Session not saved", "You will need to sign in again after restart", domain.SeverityWarning)
	}
	s.logger.InfoContext(ctx, "signed in", "user_id", sess.User.ID)
	return res
}

// Logout tells the backend and forgets the local session even when the
// backend call fails.
func (s *Session) Logout(ctx context.Context) {
	res := s.auth.Logout(ctx)
	if !res.Ok() {
		s.logger.WarnContext(ctx, "backend logout failed", "message", res.Message())
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.cache.RemoveUserToken(ctx)
	s.cache.RemoveUserData(ctx)
	s.logger.InfoContext(ctx, "signed out")
}

// RefreshProfile reloads the user from the backend.
func (s *Session) RefreshProfile(ctx context.Context) bool {
	res := s.auth.Profile(ctx)
	u, ok := res.Unwrap()
	if !ok {
		s.ui.Notify("Profile", res.Message(), domain.SeverityError)
		return false
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	s.cache.SaveUserData(ctx, u)
	return true
}

// SaveSettings persists settings and applies them to the UI state.
func (s *Session) SaveSettings(ctx context.Context, settings domain.AppSettings) bool {
	if !settings.Theme.Valid() {
		s.ui.Notify("Settings", "Unknown theme "+string(settings.Theme), domain.SeverityError)
		return false
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.applySettings(settings)
	if !s.cache.SaveAppSettings(ctx, settings) {
		s.ui.Notify("Settings", "Failed to save settings", domain.SeverityError)
		return false
	}
	return true
}

func (s *Session) applySettings(settings domain.AppSettings) {
	if err := s.ui.SetTheme(settings.Theme); err != nil {
		s.logger.Warn("ignoring cached theme", "err", err)
	}
	if settings.LastActiveTab != "" {
		s.ui.SetActiveTab(settings.LastActiveTab)
	}
}
