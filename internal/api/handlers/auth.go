package handlers

import (
	"net/http"
	"strings"
	"sync"

	"fleet-client/internal/domain"

	"github.com/google/uuid"
)

// Account is a sign-in the mock backend accepts.
type Account struct {
	Password string
	User     domain.User
}

// AuthHandler issues opaque bearer tokens for a fixed set of accounts.
type AuthHandler struct {
	Accounts map[string]Account // by lower-case email

	mu     sync.Mutex
	tokens map[string]domain.User
}

func NewAuthHandler(accounts map[string]Account) *AuthHandler {
	byEmail := make(map[string]Account, len(accounts))
	for email, a := range accounts {
		byEmail[strings.ToLower(email)] = a
	}
	return &AuthHandler{Accounts: byEmail, tokens: make(map[string]domain.User)}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	acct, ok := h.Accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
	if !ok || acct.Password != creds.Password {
		writeError(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := uuid.NewString()
	h.mu.Lock()
	h.tokens[token] = acct.User
	h.mu.Unlock()

	writeJSON(w, r, http.StatusOK, domain.AuthSession{Token: token, User: acct.User})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearer(r); token != "" {
		h.mu.Lock()
		delete(h.tokens, token)
		h.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	u, ok := h.tokens[bearer(r)]
	h.mu.Unlock()

	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Not signed in")
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
