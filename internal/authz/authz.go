// Package authz answers capacity questions about the acting principal.
// Checks return an AuthResult pair so UI-facing callers can render the
// message inline; the request lifecycle turns a failed result into an
// AuthorizationError.
package authz

import (
	"context"
	"fmt"

	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/security"
)

// AuthResult is the outcome of a capacity check.
type AuthResult struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

func allow() AuthResult {
	return AuthResult{Success: true}
}

func deny(format string, args ...interface{}) AuthResult {
	return AuthResult{Success: false, Msg: fmt.Sprintf(format, args...)}
}

// ToServiceError converts a failed result into an AuthorizationError. It returns nil on success.
func (r AuthResult) ToServiceError() *serviceerror.ServiceError {
	if r.Success {
		return nil
	}
	return serviceerror.CustomServiceError(serviceerror.AuthorizationError, r.Msg)
}

// Checker evaluates principals against organization memberships.
type Checker struct {
	orgs catalog.OrganizationProvider
}

// NewChecker creates a checker backed by the catalog's organization lookups.
func NewChecker(orgs catalog.OrganizationProvider) *Checker {
	return &Checker{orgs: orgs}
}

// CanCreate allows any identified user to file a request.
func (c *Checker) CanCreate(principal *security.Principal) AuthResult {
	if principal.IsAnonymous() {
		return deny("you must be logged in to send a data request")
	}
	return allow()
}

// CanManageDataset allows the dataset's creator, an admin of its owning
// organization, or a sysadmin.
func (c *Checker) CanManageDataset(ctx context.Context, principal *security.Principal, dataset *model.Dataset) (AuthResult, error) {
	if principal.IsAnonymous() {
		return deny("you must be logged in to manage requests for dataset %s", dataset.ID), nil
	}
	if principal.IsSysadmin() {
		return allow(), nil
	}
	if dataset.CreatorUserID != "" && dataset.CreatorUserID == principal.UserID {
		return allow(), nil
	}
	if dataset.OwnerOrg != "" {
		admin, err := c.isOrganizationAdmin(ctx, principal, dataset.OwnerOrg)
		if err != nil {
			return AuthResult{}, err
		}
		if admin {
			return allow(), nil
		}
	}
	return deny("user %s is not authorized to manage requests for dataset %s", principal.UserID, dataset.ID), nil
}

// CanViewOrganization allows organization admins and sysadmins. org may be an id or a name.
func (c *Checker) CanViewOrganization(ctx context.Context, principal *security.Principal, org string) (AuthResult, error) {
	if principal.IsAnonymous() {
		return deny("you must be logged in to view requests of organization %s", org), nil
	}
	if principal.IsSysadmin() {
		return allow(), nil
	}
	admin, err := c.isOrganizationAdmin(ctx, principal, org)
	if err != nil {
		return AuthResult{}, err
	}
	if !admin {
		return deny("user %s is not an admin of organization %s", principal.UserID, org), nil
	}
	return allow(), nil
}

// CanViewAll allows sysadmins only.
func (c *Checker) CanViewAll(principal *security.Principal) AuthResult {
	if !principal.IsSysadmin() {
		return deny("only sysadmins can view requests across all organizations")
	}
	return allow()
}

// CanTakeActions reports whether the principal may act on requests of orgName.
func (c *Checker) CanTakeActions(ctx context.Context, principal *security.Principal, orgName string) (AuthResult, error) {
	result, err := c.CanViewOrganization(ctx, principal, orgName)
	if err != nil || result.Success {
		return result, err
	}
	return deny("you do not have permission to act on requests of %s", orgName), nil
}

func (c *Checker) isOrganizationAdmin(ctx context.Context, principal *security.Principal, org string) (bool, error) {
	orgs, err := c.orgs.ListOrganizationsForUser(ctx, principal.UserID, constants.OrganizationAdminCapacity)
	if err != nil {
		return false, fmt.Errorf("failed to list organizations for user %s: %w", principal.UserID, err)
	}
	for _, o := range orgs {
		if o.ID == org || o.Name == org {
			return true, nil
		}
	}
	return false, nil
}
