package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/data-request-api/internal/system/config"
	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorrelationIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationIDMiddleware())
	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = log.CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("reuses inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "req-7")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "req-7", rec.Header().Get(constants.CorrelationIDHeaderName))
		assert.Equal(t, "req-7", seen)
	})

	t.Run("generates when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := rec.Header().Get(constants.CorrelationIDHeaderName)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, seen)
	})
}

func TestPrincipalMiddleware(t *testing.T) {
	resolver := func(ctx context.Context, userID string) (*security.Principal, error) {
		switch userID {
		case "alice":
			return &security.Principal{UserID: "alice-id", Name: "alice"}, nil
		case "broken":
			return nil, errors.New("catalog down")
		}
		return nil, nil
	}

	router := gin.New()
	router.Use(PrincipalMiddleware(resolver))
	var principal *security.Principal
	router.GET("/me", func(c *gin.Context) {
		principal = utils.GetPrincipal(c)
		c.Status(http.StatusOK)
	})

	testCases := []struct {
		name      string
		header    string
		status    int
		anonymous bool
		userID    string
	}{
		{name: "no header", status: http.StatusOK, anonymous: true},
		{name: "known user", header: "alice", status: http.StatusOK, userID: "alice-id"},
		{name: "unknown user", header: "mallory", status: http.StatusOK, anonymous: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			principal = nil
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(constants.UserIDHeaderName, tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			require.NotNil(t, principal)
			assert.Equal(t, tc.anonymous, principal.IsAnonymous())
			assert.Equal(t, tc.userID, principal.UserID)
		})
	}

	t.Run("resolver failure aborts", func(t *testing.T) {
		principal = nil
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(constants.UserIDHeaderName, "broken")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Nil(t, principal)
	})
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware(config.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"https://portal.example"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := httptest.NewRequest(http.MethodOptions, "/x", nil)
	preflight.Header.Set("Origin", "https://portal.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://portal.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))

	other := httptest.NewRequest(http.MethodGet, "/x", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
