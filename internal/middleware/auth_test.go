package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/vexa-chat/internal/auth"
	"github.com/ayush/vexa-chat/internal/middleware"
)

func gatedServer(sessions auth.Sessions) http.Handler {
	return middleware.RequireAuth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := auth.SessionFromContext(r.Context())
		w.Write([]byte(sess.Username))
	}))
}

func TestGateRejectsAnonymous(t *testing.T) {
	srv := gatedServer(auth.NewMemorySessions())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateRejectsUnknownSession(t *testing.T) {
	srv := gatedServer(auth.NewMemorySessions())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateLifecycle(t *testing.T) {
	sessions := auth.NewMemorySessions()
	srv := gatedServer(sessions)
	ctx := context.Background()

	// Anonymous: blocked.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// After login: passes, session identity visible to the handler.
	sid, err := sessions.Create(ctx, auth.Session{UserID: "u1", Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: sid})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	// After logout: the same cookie is rejected again.
	require.NoError(t, sessions.Delete(ctx, sid))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: sid})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
