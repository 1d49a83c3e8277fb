package notification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/stores"
)

func newTestRouter(t *testing.T, principal *security.Principal) (*gin.Engine, *memoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client, _ := newTxClient()
	memory := &memoryStore{rows: map[string]bool{}}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(constants.PrincipalContextKey, principal)
		}
		c.Next()
	})
	Initialize(router.Group("/api/v1"), stores.NewStoreRegistry(client, nil, nil, memory))
	return router, memory
}

func TestHandler_NotifyThenReadAndAcknowledge(t *testing.T) {
	router, memory := newTestRouter(t, &security.Principal{UserID: "alice"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", strings.NewReader(`{"ids":["alice","bob"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, memory.rows, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"alice","seen":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/me/acknowledge", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, memory.rows["alice"])
	assert.False(t, memory.rows["bob"])
}

func TestHandler_NotifyRejectsEmptyList(t *testing.T) {
	router, _ := newTestRouter(t, &security.Principal{UserID: "alice"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications", strings.NewReader(`{"ids":[]}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestHandler_AnonymousIsForbidden(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications/me", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
