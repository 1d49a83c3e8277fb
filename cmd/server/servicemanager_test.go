package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmocks "github.com/wso2/data-request-api/internal/catalog/mocks"
	"github.com/wso2/data-request-api/internal/system/config"
	"github.com/wso2/data-request-api/internal/system/database"
	"github.com/wso2/data-request-api/internal/system/database/provider"
)

func TestRegisterServices_RoutesAndHealth(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	db := database.NewDB(sqlx.NewDb(sqlDB, "sqlmock"), config.DatabaseTypeMySQL)
	dbClient := provider.NewDBClient(db.DB, config.DatabaseTypeMySQL)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerServices(router, router.Group("/api/v1"), dbClient, db, &catalogmocks.MockCatalog{}, &config.Config{})

	routes := make(map[string]bool)
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/requests",
		"GET /api/v1/requests",
		"GET /api/v1/requests/:id",
		"PATCH /api/v1/requests/:id",
		"POST /api/v1/requests/:id/actions/:action",
		"GET /api/v1/counters",
		"GET /api/v1/counters/:packageId",
		"POST /api/v1/counters/:packageId/increment",
		"GET /api/v1/organizations/:org/counters",
		"POST /api/v1/notifications",
		"GET /api/v1/notifications/me",
		"POST /api/v1/notifications/me/acknowledge",
		"GET /api/v1/organizations/:org/requests/view",
		"GET /api/v1/organizations/:org/can-act",
		"GET /api/v1/admin/requests/view",
		"GET /health",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubCloser struct {
	calls int
	err   error
}

func (c *stubCloser) Close() error {
	c.calls++
	return c.err
}

func TestUnregisterServices_ClosesDatabase(t *testing.T) {
	closer := &stubCloser{}
	require.NoError(t, unregisterServices(closer))
	assert.Equal(t, 1, closer.calls)

	failing := &stubCloser{err: errors.New("pool busy")}
	err := unregisterServices(failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool busy")
}
