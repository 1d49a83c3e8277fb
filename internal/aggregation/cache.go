package aggregation

import (
	"context"
	"errors"
	"fmt"

	"github.com/wso2/data-request-api/internal/catalog"
	catalogmodel "github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/maintainer"
)

// lookupCache memoises catalog and identity lookups for one pipeline run.
// It is not safe for concurrent use.
type lookupCache struct {
	catalog    catalog.Catalog
	resolver   maintainer.Resolver
	datasets   map[string]*catalogmodel.Dataset
	orgs       map[string]*catalogmodel.Organization
	identities map[string]*catalogmodel.Identity
}

func newLookupCache(cat catalog.Catalog, resolver maintainer.Resolver) *lookupCache {
	return &lookupCache{
		catalog:    cat,
		resolver:   resolver,
		datasets:   make(map[string]*catalogmodel.Dataset),
		orgs:       make(map[string]*catalogmodel.Organization),
		identities: make(map[string]*catalogmodel.Identity),
	}
}

// dataset returns nil without error when the dataset no longer exists.
func (c *lookupCache) dataset(ctx context.Context, id string) (*catalogmodel.Dataset, error) {
	if d, ok := c.datasets[id]; ok {
		return d, nil
	}
	d, err := c.catalog.GetDataset(ctx, id)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("failed to load dataset %s: %w", id, err)
		}
		d = nil
	}
	c.datasets[id] = d
	return d, nil
}

// organization returns nil without error when the organization no longer exists.
func (c *lookupCache) organization(ctx context.Context, id string) (*catalogmodel.Organization, error) {
	if o, ok := c.orgs[id]; ok {
		return o, nil
	}
	o, err := c.catalog.GetOrganization(ctx, id)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("failed to load organization %s: %w", id, err)
		}
		o = nil
	}
	c.orgs[id] = o
	return o, nil
}

// identity resolves a maintainer token. A resolved identity is also cached
// under its id so later lookups by id are free.
func (c *lookupCache) identity(ctx context.Context, token string) (*catalogmodel.Identity, bool) {
	if identity, ok := c.identities[token]; ok {
		return identity, identity != nil
	}
	identity, ok := c.resolver.ResolveIdentity(ctx, token)
	if !ok {
		identity = nil
	}
	c.identities[token] = identity
	if identity != nil {
		if _, exists := c.identities[identity.ID]; !exists {
			c.identities[identity.ID] = identity
		}
	}
	return identity, identity != nil
}
