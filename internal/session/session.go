// Package session keeps the signed-in application state for each browser
// session in memory.
//
// The remote store is the source of truth; a session holds the working copy
// loaded at login (users, clients, catalog) that the services read from and
// update after every successful remote write. Sessions are keyed by the
// SHA-256 hash of a random token handed to the browser as a cookie, so a
// leaked memory dump never exposes a usable token.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
)

const (
	// CookieName is the browser cookie carrying the session token.
	CookieName = "giftdesk_session"

	// Lifetime is how long a session stays valid without re-authentication.
	Lifetime = 12 * time.Hour
)

// State is the working copy of the remote store for one signed-in user.
type State struct {
	Users   []domain.User
	Clients []domain.Client
	Catalog []domain.CatalogItem
}

// Session is one authenticated browser session.
type Session struct {
	User        domain.User
	AccessToken string // Provider token backing this session
	ExpiresAt   time.Time

	mu    sync.Mutex
	state State
}

// Snapshot returns a copy of the session state. Slices are copied so callers
// can read them without holding any lock.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Users:   append([]domain.User(nil), s.state.Users...),
		Clients: append([]domain.Client(nil), s.state.Clients...),
		Catalog: append([]domain.CatalogItem(nil), s.state.Catalog...),
	}
}

// Update applies fn to the session state under the lock. fn must not block on
// network calls; do remote work first, then apply the result here.
func (s *Session) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Manager tracks active sessions by hashed token.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new session and returns the raw token for the cookie.
func (m *Manager) Create(user domain.User, accessToken string, state State) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	session := &Session{
		User:        user,
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(Lifetime),
		state:       state,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[hashToken(token)] = session
	return token, nil
}

// Get returns the session for a raw token, or nil when the token is unknown
// or the session has expired. Expired sessions are removed on access.
func (m *Manager) Get(token string) *Session {
	key := hashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[key]
	if !ok {
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, key)
		return nil
	}
	return session
}

// Delete removes the session for a raw token.
func (m *Manager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, hashToken(token))
}

// DeleteByEmail removes every session belonging to the email. Used when a
// user is taken off the allow-list or signs out elsewhere.
func (m *Manager) DeleteByEmail(email string) {
	email = domain.NormalizeEmail(email)

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, session := range m.sessions {
		if session.User.Email == email {
			delete(m.sessions, key)
		}
	}
}

// Cookie builds the session cookie for a raw token.
func Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds a cookie that clears the session from the browser.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
