package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VANBAHIA/govrh/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(ja *jwtauth.JWTAuth) http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(ja))
		r.Use(AuthRequired(ja))
		r.Get("/protected", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func doRequest(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret", "1h")
	router := newProtectedRouter(jwtService.JWTAuth())

	t.Run("accepts a generated access token", func(t *testing.T) {
		token, expiresAt, err := jwtService.GenerateAccessToken("user-1", "tenant-1", "admin")
		require.NoError(t, err)
		assert.Greater(t, expiresAt, time.Now().Unix())

		rec := doRequest(router, token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		rec := doRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a non-access token", func(t *testing.T) {
		_, token, err := jwtService.JWTAuth().Encode(map[string]interface{}{
			"user_id":   "user-1",
			"tenant_id": "tenant-1",
			"type":      "refresh",
			"exp":       time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		rec := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a token without a tenant", func(t *testing.T) {
		_, token, err := jwtService.JWTAuth().Encode(map[string]interface{}{
			"user_id": "user-1",
			"type":    "access",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		rec := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("other-secret", "1h")
		token, _, err := other.GenerateAccessToken("user-1", "tenant-1", "admin")
		require.NoError(t, err)

		rec := doRequest(router, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
