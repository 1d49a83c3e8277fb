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

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/utils"
)

// PrincipalResolver turns the user ID asserted by the gateway into a principal.
// It returns a nil principal when the user is unknown.
type PrincipalResolver func(ctx context.Context, userID string) (*security.Principal, error)

// PrincipalMiddleware attaches the acting principal to every request. Requests
// without the user header, or naming an unknown user, continue as anonymous.
func PrincipalMiddleware(resolve PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := security.Anonymous()

		if userID := strings.TrimSpace(c.GetHeader(constants.UserIDHeaderName)); userID != "" {
			resolved, err := resolve(c.Request.Context(), userID)
			if err != nil {
				log.GetLogger().WithContext(c.Request.Context()).Error("Failed to resolve acting user",
					log.String("user_id", userID), log.Error(err))
				utils.SendError(c, serviceerror.CustomServiceError(serviceerror.CatalogError,
					"unable to resolve the acting user"))
				return
			}
			if resolved != nil {
				principal = resolved
			} else {
				log.GetLogger().WithContext(c.Request.Context()).Warn("Unknown acting user, continuing as anonymous",
					log.String("user_id", userID))
			}
		}

		c.Set(constants.PrincipalContextKey, principal)
		c.Request = c.Request.WithContext(security.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}
