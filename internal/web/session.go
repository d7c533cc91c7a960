package web

import (
	"net/http"

	"github.com/gorilla/sessions"

	"taskfollow/internal/logging"
)

const sessionUserKey = "user_id"

// sessionManager wraps the cookie store with the handful of operations the
// handlers need.
type sessionManager struct {
	store      sessions.Store
	cookieName string
}

func newSessionManager(secret, cookieName string, maxAge int) *sessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &sessionManager{store: store, cookieName: cookieName}
}

func (sm *sessionManager) get(r *http.Request) *sessions.Session {
	// An undecodable cookie yields a fresh session, which is exactly
	// the logged-out state.
	session, _ := sm.store.Get(r, sm.cookieName)
	return session
}

// currentUserID returns the signed-in user's identifier, or "" when the
// request carries no valid session.
func (sm *sessionManager) currentUserID(r *http.Request) string {
	session := sm.get(r)
	if id, ok := session.Values[sessionUserKey].(string); ok {
		return id
	}
	return ""
}

// signIn records the user in the session
func (sm *sessionManager) signIn(w http.ResponseWriter, r *http.Request, userID string) {
	session := sm.get(r)
	session.Values[sessionUserKey] = userID
	if err := session.Save(r, w); err != nil {
		logging.Debugf("save session: %v\n", err)
	}
}

// signOut clears the session
func (sm *sessionManager) signOut(w http.ResponseWriter, r *http.Request) {
	session := sm.get(r)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		logging.Debugf("save session: %v\n", err)
	}
}

// flash queues a message for the next rendered page
func (sm *sessionManager) flash(w http.ResponseWriter, r *http.Request, message string) {
	session := sm.get(r)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		logging.Debugf("save session: %v\n", err)
	}
}

// popFlashes drains and returns the queued messages
func (sm *sessionManager) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	session := sm.get(r)
	raw := session.Flashes()
	if len(raw) > 0 {
		if err := session.Save(r, w); err != nil {
			logging.Debugf("save session: %v\n", err)
		}
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
