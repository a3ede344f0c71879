// Package session manages server-side sessions keyed by a signed opaque
// cookie token. Records live in the session store with a sliding one-hour
// expiry; the cookie itself carries no state.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/duynhne/members-web/internal/core/domain"
)

// CookieName is the session cookie set on authenticated browsers.
const CookieName = "session_id"

// cookiePrefix marks a signed cookie value: "s:<token>.<signature>".
const cookiePrefix = "s:"

const contextKey = "members-web/session"

// State is the tagged per-session state: either anonymous, or authenticated
// with the username recorded at signup or login.
type State struct {
	Authenticated bool
	Username      string
}

// Session is the per-request handle to the visitor's session. A zero Session
// is anonymous with no backing record.
type Session struct {
	token  string
	record *domain.SessionRecord
}

// State returns the tagged session state.
func (s *Session) State() State {
	if s.record == nil || !s.record.Authenticated {
		return State{}
	}
	return State{Authenticated: true, Username: s.record.Username}
}

// Authenticated reports whether the session has passed signup or login.
func (s *Session) Authenticated() bool {
	return s.State().Authenticated
}

// Username returns the name recorded on authentication, or "" when anonymous.
func (s *Session) Username() string {
	return s.State().Username
}

// Manager loads, mutates and destroys sessions against the backing store.
type Manager struct {
	sessions domain.SessionRepository
	secret   []byte
	ttl      time.Duration
}

// NewManager creates a Manager. secret signs cookie values; ttl is the
// sliding session lifetime.
func NewManager(sessions domain.SessionRepository, secret string, ttl time.Duration) *Manager {
	return &Manager{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

// Middleware resolves the visitor's session once per request and stashes the
// handle in the gin context. Each hit on a live session slides its expiry
// forward by the full TTL.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &Session{}

		if raw, err := c.Cookie(CookieName); err == nil {
			if token, ok := m.verifyCookie(raw); ok {
				ctx := c.Request.Context()
				rec, err := m.sessions.GetByToken(ctx, token)
				switch {
				case err != nil:
					zerolog.Ctx(ctx).Warn().Err(err).Msg("session lookup failed")
				case rec != nil:
					sess.token = token
					sess.record = rec
					if err := m.sessions.Touch(ctx, token, time.Now().Add(m.ttl)); err != nil {
						zerolog.Ctx(ctx).Warn().Err(err).Msg("session touch failed")
					}
				}
			}
		}

		c.Set(contextKey, sess)
		c.Next()
	}
}

// Get returns the session handle for the request. Requests that did not pass
// through Middleware get a fresh anonymous handle.
func (m *Manager) Get(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return &Session{}
}

// Authenticate marks the visitor's session as authenticated under username,
// allocating a session record and response cookie when none exists yet.
// This is the only path that sets the authenticated flag.
func (m *Manager) Authenticate(c *gin.Context, username string) error {
	sess := m.Get(c)

	if sess.token == "" {
		token, err := newToken()
		if err != nil {
			return fmt.Errorf("generate session token: %w", err)
		}
		sess.token = token
		m.setCookie(c, token)
	}

	rec := domain.SessionRecord{
		Token:         sess.token,
		Authenticated: true,
		Username:      username,
		ExpiresAt:     time.Now().Add(m.ttl),
	}
	if err := m.sessions.Upsert(c.Request.Context(), rec); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	sess.record = &rec
	return nil
}

// Destroy invalidates the session record and expires the cookie. Requests
// presenting the old cookie afterwards are anonymous.
func (m *Manager) Destroy(c *gin.Context) error {
	sess := m.Get(c)

	if sess.token != "" {
		if err := m.sessions.Delete(c.Request.Context(), sess.token); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)

	sess.token = ""
	sess.record = nil
	return nil
}

func (m *Manager) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, m.signToken(token), int(m.ttl.Seconds()), "/", "", false, true)
}

// signToken produces the cookie value "s:<token>.<hmac>".
func (m *Manager) signToken(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return cookiePrefix + token + "." + sig
}

// verifyCookie checks the cookie signature and returns the embedded token.
func (m *Manager) verifyCookie(value string) (string, bool) {
	rest, ok := strings.CutPrefix(value, cookiePrefix)
	if !ok {
		return "", false
	}
	idx := strings.LastIndex(rest, ".")
	if idx <= 0 {
		return "", false
	}
	token := rest[:idx]
	if !hmac.Equal([]byte(m.signToken(token)), []byte(value)) {
		return "", false
	}
	return token, true
}

func newToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
