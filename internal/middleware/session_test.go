package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-maass/comissions-dashboard/internal/domain"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
)

const testSecret = "test-secret"

func TestSession_ValidToken(t *testing.T) {
	ja := middleware.NewTokenAuth(testSecret)
	token, err := middleware.IssueToken(ja, domain.Actor{Name: "Dirección", IsAdmin: true}, time.Hour)
	require.NoError(t, err)

	var got domain.Actor
	h := middleware.NewSession(ja)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := serve(h, "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Actor{Name: "Dirección", IsAdmin: true}, got)
}

func TestSession_SpecialistToken(t *testing.T) {
	ja := middleware.NewTokenAuth(testSecret)
	token, err := middleware.IssueToken(ja, domain.Actor{Name: "María García"}, time.Hour)
	require.NoError(t, err)

	var got domain.Actor
	h := middleware.NewSession(ja)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.ActorFromContext(r.Context())
	}))

	serve(h, "Bearer "+token)

	own, scoped := got.ScopedTo()
	assert.True(t, scoped)
	assert.Equal(t, "María García", own)
}

func TestSession_Rejects(t *testing.T) {
	ja := middleware.NewTokenAuth(testSecret)
	other := middleware.NewTokenAuth("another-secret")
	forged, err := middleware.IssueToken(other, domain.Actor{Name: "Mallory", IsAdmin: true}, time.Hour)
	require.NoError(t, err)
	expired, err := middleware.IssueToken(ja, domain.Actor{Name: "María García"}, -time.Hour)
	require.NoError(t, err)
	nameless, err := middleware.IssueToken(ja, domain.Actor{IsAdmin: true}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no token", "", "missing session token"},
		{"wrong key", "Bearer " + forged, "invalid session token"},
		{"expired", "Bearer " + expired, "invalid session token"},
		{"garbage", "Bearer not-a-jwt", "invalid session token"},
		{"no name", "Bearer " + nameless, "session token has no name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := middleware.NewSession(ja)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

			rec := serve(h, tt.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
			assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"`+tt.message+`"}}`, rec.Body.String())
		})
	}
}

func TestActorFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)

	assert.Equal(t, domain.Actor{}, middleware.ActorFromContext(req.Context()))
}

// ---- helpers ----

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
