/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/error/apierror"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/security"
)

// StatusCodeFor maps a ServiceError onto an HTTP status.
func StatusCodeFor(err *serviceerror.ServiceError) int {
	if err.Type != serviceerror.ClientErrorType {
		return http.StatusInternalServerError
	}
	switch err.Code {
	case serviceerror.ResourceNotFoundError.Code:
		return http.StatusNotFound
	case serviceerror.ConflictError.Code:
		return http.StatusConflict
	case serviceerror.AuthorizationError.Code:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// SendError writes a ServiceError as an HTTP response with appropriate status code
func SendError(c *gin.Context, err *serviceerror.ServiceError) {
	statusCode := StatusCodeFor(err)
	if statusCode >= http.StatusInternalServerError {
		log.GetLogger().WithContext(c.Request.Context()).Error("Request failed",
			log.String("code", err.Code),
			log.String("description", err.ErrorDescription),
			log.String("path", c.FullPath()))
	}

	c.AbortWithStatusJSON(statusCode, apierror.ErrorResponse{
		Code:        err.Error,
		Description: err.ErrorDescription,
		Fields:      err.Fields,
	})
}

// SendBindError reports a malformed request body.
func SendBindError(c *gin.Context, err error) {
	SendError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
		"invalid request body: "+err.Error()))
}

// GetPrincipal returns the acting principal attached by the principal middleware.
func GetPrincipal(c *gin.Context) *security.Principal {
	if v, ok := c.Get(constants.PrincipalContextKey); ok {
		if p, ok := v.(*security.Principal); ok && p != nil {
			return p
		}
	}
	return security.FromContext(c.Request.Context())
}
