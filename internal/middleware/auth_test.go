package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrorpranav/user-registry/internal/auth"
)

type fakeValidator struct {
	sessions map[string]string
	err      error
}

func (f fakeValidator) Get(_ context.Context, sessionID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.sessions[sessionID], nil
}

func TestRequireAuth(t *testing.T) {
	validator := fakeValidator{sessions: map[string]string{"good-sid": "ada"}}

	var seenUsername string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUsername, _ = r.Context().Value(UsernameKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAuth(validator)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "bad-sid"})
		rec := httptest.NewRecorder()
		RequireAuth(validator)(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("validator error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "good-sid"})
		rec := httptest.NewRecorder()
		RequireAuth(fakeValidator{err: errors.New("redis down")})(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "good-sid"})
		rec := httptest.NewRecorder()
		RequireAuth(validator)(next).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ada", seenUsername)
	})
}
