package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"naat/internal/config"
	"naat/internal/transport/httpserver/handler"
	"naat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopProfiles struct{}

func (nopProfiles) UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error {
	return nil
}

func testRouter() http.Handler {
	cfg := config.Config{
		CORSOrigins: []string{"http://localhost:5173"},
		Pagination:  config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Supabase: config.SupabaseConfig{
			SkipAuth:     true,
			MockUserID:   "11111111-1111-1111-1111-111111111111",
			MockUserName: "Awa",
		},
	}
	handlers := handler.New(nil, nil, nil, cfg.Pagination, logger.Nop())
	return NewRouter(cfg, handlers, nopProfiles{}, logger.Nop())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestAuthMeWithMockUser(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", body["id"])
	assert.Equal(t, "Awa", body["name"])
}

func TestListGroupsRejectsBadPage(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/groups?page=-2", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invalid_request"`)
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
