package aggregation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wso2/data-request-api/internal/aggregation/model"
	"github.com/wso2/data-request-api/internal/catalog"
	catalogmodel "github.com/wso2/data-request-api/internal/catalog/model"
	countersmodel "github.com/wso2/data-request-api/internal/counters/model"
	requestmodel "github.com/wso2/data-request-api/internal/datarequest/model"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/stores/interfaces"
)

const maxConcurrentCounterReads = 8

// Pipeline turns a scoped set of requests into per-organization views.
// It holds no state between runs.
type Pipeline struct {
	catalog  catalog.Catalog
	resolver maintainer.Resolver
	counters interfaces.CountersStore
	logger   *log.Logger
}

// NewPipeline creates an aggregation pipeline.
func NewPipeline(cat catalog.Catalog, resolver maintainer.Resolver, counters interfaces.CountersStore) *Pipeline {
	return &Pipeline{
		catalog:  cat,
		resolver: resolver,
		counters: counters,
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AggregationPipeline")),
	}
}

type entry struct {
	request requestmodel.DataRequest
	dataset *catalogmodel.Dataset
}

type organizationGroup struct {
	org     *catalogmodel.Organization
	entries []entry
}

// Run groups requests by owning organization and builds one view per
// organization. Requests whose dataset or organization no longer exists are
// skipped.
func (p *Pipeline) Run(ctx context.Context, requests []requestmodel.DataRequest, params model.ViewParams) (*model.View, error) {
	cache := newLookupCache(p.catalog, p.resolver)

	groups, tallies, err := p.groupByOrganization(ctx, cache, requests, params.Organizations)
	if err != nil {
		return nil, err
	}

	counters, err := p.prefetchCounters(ctx, groups)
	if err != nil {
		return nil, err
	}

	view := &model.View{
		Organizations:           make([]model.OrganizationView, 0, len(groups)),
		OrganizationsForFilters: tallies,
	}
	for i, group := range groups {
		view.Organizations = append(view.Organizations, buildOrganizationView(ctx, cache, group, counters[i], params))
	}

	p.logger.WithContext(ctx).Debug("Aggregated requests",
		log.Int("requests", len(requests)),
		log.Int("organizations", len(view.Organizations)))
	return view, nil
}

// groupByOrganization enriches each request with its dataset and organization.
// Organizations are tallied before the organization filter applies.
func (p *Pipeline) groupByOrganization(ctx context.Context, cache *lookupCache, requests []requestmodel.DataRequest,
	orgFilter []string) ([]*organizationGroup, []model.OrganizationTally, error) {
	groups := make([]*organizationGroup, 0)
	byOrg := make(map[string]*organizationGroup)
	tallies := make([]model.OrganizationTally, 0)
	tallyIndex := make(map[string]int)

	for _, request := range requests {
		dataset, err := cache.dataset(ctx, request.PackageID)
		if err != nil {
			return nil, nil, err
		}
		if dataset == nil {
			continue
		}
		org, err := cache.organization(ctx, dataset.OwnerOrg)
		if err != nil {
			return nil, nil, err
		}
		if org == nil {
			continue
		}

		if i, ok := tallyIndex[org.ID]; ok {
			tallies[i].Requests++
		} else {
			tallyIndex[org.ID] = len(tallies)
			tallies = append(tallies, model.OrganizationTally{ID: org.ID, Name: org.Name, Title: org.Title, Requests: 1})
		}

		if len(orgFilter) > 0 && !containsOrganization(orgFilter, org) {
			continue
		}

		group, ok := byOrg[org.ID]
		if !ok {
			group = &organizationGroup{org: org}
			byOrg[org.ID] = group
			groups = append(groups, group)
		}
		group.entries = append(group.entries, entry{request: request, dataset: dataset})
	}

	sort.SliceStable(tallies, func(i, j int) bool { return tallies[i].Requests > tallies[j].Requests })
	return groups, tallies, nil
}

// prefetchCounters reads the counters of every organization concurrently.
func (p *Pipeline) prefetchCounters(ctx context.Context, groups []*organizationGroup) ([][]countersmodel.RequestCounters, error) {
	results := make([][]countersmodel.RequestCounters, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounterReads)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			counters, err := p.counters.GetByOrgID(gctx, group.org.ID)
			if err != nil {
				return fmt.Errorf("failed to load counters for organization %s: %w", group.org.ID, err)
			}
			results[i] = counters
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// NewOrganizationView returns an empty view for org.
func NewOrganizationView(org *catalogmodel.Organization, order model.Order) model.OrganizationView {
	return model.OrganizationView{
		ID:              org.ID,
		Name:            org.Name,
		Title:           org.Title,
		RequestsNew:     make([]model.RequestView, 0),
		RequestsOpen:    make([]model.RequestView, 0),
		RequestsArchive: make([]model.ArchiveGroup, 0),
		Maintainers:     make([]model.MaintainerView, 0),
		Counters:        countersmodel.RequestCounters{OrgID: org.ID},
		CurrentOrder:    order,
	}
}

type enrichedRequest struct {
	view model.RequestView
	// keys holds the raw maintainer tokens and the ids they resolved to.
	keys map[string]struct{}
}

func buildOrganizationView(ctx context.Context, cache *lookupCache, group *organizationGroup,
	counters []countersmodel.RequestCounters, params model.ViewParams) model.OrganizationView {
	view := NewOrganizationView(group.org, OrderFor(group.org, params.Orders))

	byPackage := make(map[string]countersmodel.RequestCounters, len(counters))
	for _, c := range counters {
		byPackage[c.PackageID] = c
		view.Counters.Add(c)
	}

	enriched := make([]enrichedRequest, 0, len(group.entries))
	for _, e := range group.entries {
		enriched = append(enriched, enrich(ctx, cache, e))
	}

	view.Maintainers = rankMaintainers(enriched)
	enriched = filterByMaintainers(ctx, cache, group.org, enriched, params.MaintainerFilters)

	archived := make([]model.RequestView, 0)
	for _, r := range enriched {
		switch r.view.State {
		case requestmodel.StateNew:
			view.RequestsNew = append(view.RequestsNew, r.view)
		case requestmodel.StateOpen:
			view.RequestsOpen = append(view.RequestsOpen, r.view)
		case requestmodel.StateArchive:
			archived = append(archived, r.view)
		}
	}

	view.RequestsArchive = groupArchived(archived, byPackage)
	sortArchiveGroups(view.RequestsArchive, view.CurrentOrder)
	return view
}

// enrich resolves the dataset's maintainer field into display maintainers,
// one per distinct identity.
func enrich(ctx context.Context, cache *lookupCache, e entry) enrichedRequest {
	tokens := maintainer.SplitField(e.dataset.Maintainer)
	result := enrichedRequest{
		view: model.RequestView{
			DataRequest: e.request,
			Title:       e.dataset.Title,
			Maintainers: make([]model.MaintainerView, 0, len(tokens)),
		},
		keys: make(map[string]struct{}, len(tokens)*2),
	}

	for _, token := range tokens {
		result.keys[token] = struct{}{}
		identity, ok := cache.identity(ctx, token)
		if !ok {
			continue
		}
		result.keys[identity.ID] = struct{}{}
		if containsMaintainer(result.view.Maintainers, identity.ID) {
			continue
		}
		result.view.Maintainers = append(result.view.Maintainers, model.MaintainerView{
			ID:       identity.ID,
			Name:     identity.DisplayName(),
			Username: identity.Name,
		})
	}
	return result
}

func containsMaintainer(maintainers []model.MaintainerView, id string) bool {
	for _, m := range maintainers {
		if m.ID == id {
			return true
		}
	}
	return false
}

// rankMaintainers counts each maintainer once per request and sorts by count
// descending, keeping first-appearance order on ties.
func rankMaintainers(requests []enrichedRequest) []model.MaintainerView {
	ranked := make([]model.MaintainerView, 0)
	index := make(map[string]int)
	for _, r := range requests {
		for _, m := range r.view.Maintainers {
			if i, ok := index[m.ID]; ok {
				ranked[i].Count++
				continue
			}
			index[m.ID] = len(ranked)
			m.Count = 1
			ranked = append(ranked, m)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	return ranked
}

// filterByMaintainers keeps the requests whose maintainers intersect the union
// of the clauses naming org. Without a clause for org, or with a wildcard
// clause, every request is kept.
func filterByMaintainers(ctx context.Context, cache *lookupCache, org *catalogmodel.Organization,
	requests []enrichedRequest, clauses []model.MaintainerClause) []enrichedRequest {
	wanted := make(map[string]struct{})
	filtered := false
	for _, clause := range clauses {
		if !matchesOrganization(clause.Org, org) {
			continue
		}
		if clause.All {
			return requests
		}
		filtered = true
		for _, id := range clause.IDs {
			if identity, ok := cache.identity(ctx, id); ok {
				wanted[identity.ID] = struct{}{}
			} else {
				wanted[id] = struct{}{}
			}
		}
	}
	if !filtered {
		return requests
	}

	kept := make([]enrichedRequest, 0, len(requests))
	for _, r := range requests {
		for key := range r.keys {
			if _, ok := wanted[key]; ok {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// groupArchived groups archived requests by dataset in first-appearance order.
func groupArchived(archived []model.RequestView, counters map[string]countersmodel.RequestCounters) []model.ArchiveGroup {
	groups := make([]model.ArchiveGroup, 0)
	index := make(map[string]int)
	for _, r := range archived {
		i, ok := index[r.PackageID]
		if !ok {
			c := counters[r.PackageID]
			i = len(groups)
			index[r.PackageID] = i
			groups = append(groups, model.ArchiveGroup{
				PackageID:        r.PackageID,
				Title:            r.Title,
				Maintainers:      r.Maintainers,
				RequestsArchived: make([]model.RequestView, 0, 1),
				Shared:           c.Shared,
				Requests:         c.Requests,
			})
		}
		g := &groups[i]
		g.RequestsArchived = append(g.RequestsArchived, r)
		if r.CreatedAt > g.LastRequestCreatedAt {
			g.LastRequestCreatedAt = r.CreatedAt
		}
	}
	return groups
}

// OrderFor returns the order of the first clause naming org, or most_recent.
func OrderFor(org *catalogmodel.Organization, clauses []model.OrderClause) model.Order {
	for _, clause := range clauses {
		if matchesOrganization(clause.Org, org) {
			return clause.Order
		}
	}
	return model.OrderMostRecent
}

func sortArchiveGroups(groups []model.ArchiveGroup, order model.Order) {
	var less func(a, b *model.ArchiveGroup) bool
	switch order {
	case model.OrderTitleAsc:
		less = func(a, b *model.ArchiveGroup) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case model.OrderTitleDesc:
		less = func(a, b *model.ArchiveGroup) bool { return strings.ToLower(a.Title) > strings.ToLower(b.Title) }
	case model.OrderShared:
		less = func(a, b *model.ArchiveGroup) bool { return a.Shared > b.Shared }
	case model.OrderRequests:
		less = func(a, b *model.ArchiveGroup) bool { return a.Requests > b.Requests }
	default:
		less = func(a, b *model.ArchiveGroup) bool { return a.LastRequestCreatedAt > b.LastRequestCreatedAt }
	}
	sort.SliceStable(groups, func(i, j int) bool { return less(&groups[i], &groups[j]) })
}

func matchesOrganization(name string, org *catalogmodel.Organization) bool {
	return name == org.Name || name == org.ID
}

func containsOrganization(names []string, org *catalogmodel.Organization) bool {
	for _, name := range names {
		if matchesOrganization(name, org) {
			return true
		}
	}
	return false
}
