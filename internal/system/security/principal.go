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

// Package security carries the acting principal through a request.
package security

import "context"

// Principal is the user on whose behalf an operation runs.
// A zero UserID means the caller is anonymous.
type Principal struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Sysadmin bool   `json:"sysadmin"`
}

const systemUserID = "system"

// Anonymous returns a principal with no identity.
func Anonymous() *Principal {
	return &Principal{}
}

// System returns the principal used by operator tooling. It acts as a sysadmin.
func System() *Principal {
	return &Principal{UserID: systemUserID, Name: systemUserID, Sysadmin: true}
}

// IsAnonymous reports whether p carries no identity.
func (p *Principal) IsAnonymous() bool {
	return p == nil || p.UserID == ""
}

// IsSysadmin reports whether p is an authenticated sysadmin.
func (p *Principal) IsSysadmin() bool {
	return !p.IsAnonymous() && p.Sysadmin
}

type contextKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(contextKey{}).(*Principal); ok && p != nil {
		return p
	}
	return Anonymous()
}
