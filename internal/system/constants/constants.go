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

package constants

const (
	AuthorizationHeaderName = "Authorization"
	ContentTypeHeaderName   = "Content-Type"
	CorrelationIDHeaderName = "X-Correlation-ID"
	UserIDHeaderName        = "X-User-ID"
	ContentTypeJSON         = "application/json"

	APIBasePath = "/api/v1"

	// PrincipalContextKey is the gin context key holding the acting principal.
	PrincipalContextKey = "principal"
	// CorrelationIDContextKey is the gin context key holding the correlation ID.
	CorrelationIDContextKey = "correlation_id"

	// OrganizationAdminCapacity is the catalog capacity granting admin rights on an organization.
	OrganizationAdminCapacity = "admin"

	// SearchResultLimit bounds a single request search.
	SearchResultLimit = 5000
)
