// Package catalog talks to the host catalog for datasets, organizations and user identities.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
)

// ErrNotFound is returned when the catalog has no record for the requested id.
var ErrNotFound = errors.New("catalog: not found")

// DatasetProvider looks up datasets.
type DatasetProvider interface {
	GetDataset(ctx context.Context, id string) (*model.Dataset, error)
	ListDatasetsForOrganization(ctx context.Context, orgID string) ([]model.Dataset, error)
}

// OrganizationProvider looks up organizations and memberships.
type OrganizationProvider interface {
	GetOrganization(ctx context.Context, idOrName string) (*model.Organization, error)
	ListOrganizationsForUser(ctx context.Context, userID, permission string) ([]model.Organization, error)
}

// IdentityProvider looks up users.
type IdentityProvider interface {
	GetIdentity(ctx context.Context, idOrName string) (*model.Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error)
}

// Catalog is the full set of lookups offered by the host catalog.
type Catalog interface {
	DatasetProvider
	OrganizationProvider
	IdentityProvider
}

// ServiceErrorFor maps a catalog lookup failure onto a ServiceError. A missing
// record becomes ResourceNotFoundError, anything else a CatalogError.
func ServiceErrorFor(err error, entity, id string) *serviceerror.ServiceError {
	if errors.Is(err, ErrNotFound) {
		return serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("%s '%s' not found", entity, id))
	}
	return serviceerror.CustomServiceError(serviceerror.CatalogError,
		fmt.Sprintf("failed to load %s '%s': %v", entity, id, err))
}
