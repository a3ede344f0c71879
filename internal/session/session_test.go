package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/members-web/internal/core/domain"
)

type fakeSessionRepo struct {
	mu      sync.Mutex
	records map[string]domain.SessionRecord
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{records: make(map[string]domain.SessionRecord)}
}

func (f *fakeSessionRepo) Upsert(_ context.Context, rec domain.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.Token] = rec
	return nil
}

func (f *fakeSessionRepo) GetByToken(_ context.Context, token string) (*domain.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[token]
	if !ok || !rec.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeSessionRepo) Touch(_ context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[token]
	if !ok || !rec.ExpiresAt.After(time.Now()) {
		return nil
	}
	rec.ExpiresAt = expiresAt
	f.records[token] = rec
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, token)
	return nil
}

func (f *fakeSessionRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// newTestRouter exposes the manager through three tiny routes so the
// middleware path is exercised exactly as in production.
func newTestRouter(mgr *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mgr.Middleware())
	r.GET("/state", func(c *gin.Context) {
		st := mgr.Get(c).State()
		c.JSON(http.StatusOK, gin.H{"authenticated": st.Authenticated, "username": st.Username})
	})
	r.POST("/auth", func(c *gin.Context) {
		if err := mgr.Authenticate(c, "Alice"); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})
	r.POST("/destroy", func(c *gin.Context) {
		if err := mgr.Destroy(c); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	return nil
}

func TestAuthenticateSetsCookieAndRecord(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, "test-secret", time.Hour)
	r := newTestRouter(mgr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth", nil))
	require.Equal(t, http.StatusOK, w.Code)

	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck)
	assert.True(t, strings.HasPrefix(ck.Value, "s:"))
	assert.True(t, ck.HttpOnly)

	require.Equal(t, 1, repo.len())
	for _, rec := range repo.records {
		assert.True(t, rec.Authenticated)
		assert.Equal(t, "Alice", rec.Username)
		assert.WithinDuration(t, time.Now().Add(time.Hour), rec.ExpiresAt, time.Minute)
	}
}

func TestMiddlewareLoadsAndSlidesSession(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, "test-secret", time.Hour)
	r := newTestRouter(mgr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth", nil))
	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck)

	// Shrink the stored expiry so the slide is observable.
	repo.mu.Lock()
	var token string
	for tok, rec := range repo.records {
		token = tok
		rec.ExpiresAt = time.Now().Add(time.Minute)
		repo.records[tok] = rec
	}
	repo.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated": true, "username": "Alice"}`, w.Body.String())

	repo.mu.Lock()
	slid := repo.records[token].ExpiresAt
	repo.mu.Unlock()
	assert.WithinDuration(t, time.Now().Add(time.Hour), slid, time.Minute)
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, "test-secret", time.Hour)
	r := newTestRouter(mgr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth", nil))
	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck)

	tampered := *ck
	tampered.Value = strings.Replace(ck.Value, "s:", "s:x", 1)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(&tampered)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"authenticated": false, "username": ""}`, w.Body.String())
}

func TestWrongSecretIsAnonymous(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, "test-secret", time.Hour)
	r := newTestRouter(mgr)

	other := NewManager(repo, "other-secret", time.Hour)
	forged := other.signToken("some-token")

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: forged})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"authenticated": false, "username": ""}`, w.Body.String())
}

func TestDestroyInvalidatesSession(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, "test-secret", time.Hour)
	r := newTestRouter(mgr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth", nil))
	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodPost, "/destroy", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := sessionCookie(t, w.Result())
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Equal(t, 0, repo.len())

	// The old cookie no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"authenticated": false, "username": ""}`, w.Body.String())
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	repo := newFakeSessionRepo()
	mgr := NewManager(repo, "test-secret", time.Hour)
	r := newTestRouter(mgr)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth", nil))
	ck := sessionCookie(t, w.Result())
	require.NotNil(t, ck)

	repo.mu.Lock()
	for tok, rec := range repo.records {
		rec.ExpiresAt = time.Now().Add(-time.Second)
		repo.records[tok] = rec
	}
	repo.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"authenticated": false, "username": ""}`, w.Body.String())
}
