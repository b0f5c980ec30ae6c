package chat

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/edgepilot-ai/edgepilot-engine/pkg/apps"
)

// SessionName is the name of the chat session cookie.
const SessionName = "chat-session"

const sessionKeyID = "session_id"

// Session is one user's conversation: their app model, ledger and the
// assistant driving it. Owned by exactly one browser session; every turn
// runs to completion before the next, so no locking inside.
type Session struct {
	ID        string
	Model     *apps.AppModel
	Assistant *Assistant
}

// NewSessionFunc builds the per-session state: a fresh app model, ledger
// and assistant. Wired at startup with the LLM client and app registry.
type NewSessionFunc func(id string) (*Session, error)

// Manager hands out sessions keyed by a signed cookie. Session state itself
// stays in memory; the cookie carries only the id.
type Manager struct {
	store      *sessions.CookieStore
	newSession NewSessionFunc
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. The secret signs the session
// cookies; it is hashed to derive a consistent 32-byte key.
func NewManager(secret string, newSession NewSessionFunc, logger *zap.Logger) *Manager {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		store:      store,
		newSession: newSession,
		logger:     logger.Named("sessions"),
		sessions:   make(map[string]*Session),
	}
}

// Session returns the caller's session, creating one when the cookie is
// absent or its state has been discarded.
func (m *Manager) Session(w http.ResponseWriter, r *http.Request) (*Session, error) {
	cookie, err := m.store.Get(r, SessionName)
	if err != nil {
		// a tampered or stale cookie falls through to a fresh session
		m.logger.Warn("invalid session cookie", zap.Error(err))
		cookie, _ = m.store.New(r, SessionName)
	}

	if id, ok := cookie.Values[sessionKeyID].(string); ok {
		m.mu.Lock()
		existing := m.sessions[id]
		m.mu.Unlock()
		if existing != nil {
			return existing, nil
		}
	}

	id := uuid.NewString()
	session, err := m.newSession(id)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	cookie.Values[sessionKeyID] = id
	if err := cookie.Save(r, w); err != nil {
		return nil, fmt.Errorf("save session cookie: %w", err)
	}

	m.logger.Info("session created", zap.String("session_id", id))
	return session, nil
}

// Drop discards a session's in-memory state.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
