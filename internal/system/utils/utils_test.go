package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/error/apierror"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/security"
)

type sampleRequest struct {
	Name  string   `json:"name" validate:"required,notblank"`
	Email string   `json:"emailAddress" validate:"required,email"`
	Tags  []string `json:"tags" validate:"omitempty,min=1"`
}

func TestValidateStruct_FieldErrorsUseJSONNames(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Name: "  ", Email: "not-an-email"})
	require.NotNil(t, err)
	assert.Equal(t, serviceerror.ValidationError.Code, err.Code)
	assert.Equal(t, "must not be blank", err.Fields["name"])
	assert.Equal(t, "must be a valid email address", err.Fields["emailAddress"])
	assert.Contains(t, err.ErrorDescription, "emailAddress")
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.Nil(t, ValidateStruct(&sampleRequest{Name: "Jane", Email: "jane@x.org"}))
}

func TestValidateRequired(t *testing.T) {
	assert.Nil(t, ValidateRequired("package_id", "pkg"))
	err := ValidateRequired("package_id", " ")
	require.NotNil(t, err)
	assert.Equal(t, "is required", err.Fields["package_id"])
}

func TestStatusCodeFor(t *testing.T) {
	testCases := []struct {
		err    serviceerror.ServiceError
		status int
	}{
		{serviceerror.ValidationError, http.StatusBadRequest},
		{serviceerror.InvalidRequestError, http.StatusBadRequest},
		{serviceerror.ResourceNotFoundError, http.StatusNotFound},
		{serviceerror.ConflictError, http.StatusConflict},
		{serviceerror.AuthorizationError, http.StatusForbidden},
		{serviceerror.DatabaseError, http.StatusInternalServerError},
		{serviceerror.CatalogError, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.err.Error, func(t *testing.T) {
			assert.Equal(t, tc.status, StatusCodeFor(&tc.err))
		})
	}
}

func TestSendError_WritesErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	SendError(c, serviceerror.FieldValidationError(map[string]string{"packageId": "is required"}))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Code)
	assert.Equal(t, "packageId: is required", body.Description)
	assert.Equal(t, "is required", body.Fields["packageId"])
}

func TestGetPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, GetPrincipal(c).IsAnonymous())

	c.Set(constants.PrincipalContextKey, &security.Principal{UserID: "u-1"})
	assert.Equal(t, "u-1", GetPrincipal(c).UserID)
}

func TestNextTimestamp_StrictlyIncreases(t *testing.T) {
	future := GetCurrentTimeMillis() + 60000
	assert.Equal(t, future+1, NextTimestamp(future))
	assert.Greater(t, NextTimestamp(0), int64(0))
}

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, id, GenerateUUID())
}
