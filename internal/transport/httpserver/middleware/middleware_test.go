package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"naat/internal/config"
	"naat/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProfiles struct {
	calls []string
	err   error
}

func (p *recordingProfiles) UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error {
	p.calls = append(p.calls, userID+"|"+email+"|"+name+"|"+avatarURL)
	return p.err
}

func mockAuthConfig() config.SupabaseConfig {
	return config.SupabaseConfig{
		SkipAuth:      true,
		MockUserID:    "11111111-1111-1111-1111-111111111111",
		MockUserEmail: "awa@example.com",
		MockUserName:  "Awa",
	}
}

func TestSkipAuthUsesMockUser(t *testing.T) {
	profiles := &recordingProfiles{err: errors.New("db down")}
	auth := NewSupabaseAuth(mockAuthConfig(), profiles, logger.Nop())

	var seen User
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = user
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code, "profile failures do not block the request")
	assert.Equal(t, "Awa", seen.Name)
	assert.Equal(t, []string{"11111111-1111-1111-1111-111111111111|awa@example.com|Awa|"}, profiles.calls)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	auth := NewSupabaseAuth(config.SupabaseConfig{URL: "http://auth.invalid", PublishableKey: "key"}, nil, logger.Nop())
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/groups", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invalid_token"`)
}

func TestAuthVerifiesTokenAgainstSupabase(t *testing.T) {
	supabase := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" || r.Header.Get("apikey") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-42","email":"moussa@example.com","user_metadata":{"full_name":"Moussa","avatar_url":"https://cdn/m.png"}}`))
	}))
	defer supabase.Close()

	profiles := &recordingProfiles{}
	auth := NewSupabaseAuth(config.SupabaseConfig{URL: supabase.URL + "/", PublishableKey: "key"}, profiles, logger.Nop())
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		_, _ = w.Write([]byte(user.ID))
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-42", rec.Body.String())
	assert.Equal(t, []string{"u-42|moussa@example.com|Moussa|https://cdn/m.png"}, profiles.calls)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/groups", nil)
	req.Header.Set("Authorization", "Bearer bad")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173/", " "})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/groups", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: slog.LevelInfo})

	handler := chimw.RequestID(RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), logger.Nop()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/groups?page=1", nil))

	out := buf.String()
	assert.Contains(t, out, `"msg":"inside handler"`)
	assert.Contains(t, out, `"msg":"http: request"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/api/groups"`)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"request_id"`)))
}
