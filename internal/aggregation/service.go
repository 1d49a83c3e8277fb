package aggregation

import (
	"context"
	"fmt"

	"github.com/wso2/data-request-api/internal/aggregation/model"
	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	countersmodel "github.com/wso2/data-request-api/internal/counters/model"
	requestmodel "github.com/wso2/data-request-api/internal/datarequest/model"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/stores"
)

// AggregationService builds the organization and sysadmin request views
type AggregationService interface {
	OrganizationView(ctx context.Context, principal *security.Principal, org string, params model.ViewParams) (*model.View, *serviceerror.ServiceError)
	AdminView(ctx context.Context, principal *security.Principal, params model.ViewParams) (*model.View, *serviceerror.ServiceError)
	CanTakeActions(ctx context.Context, principal *security.Principal, org string) (*authz.AuthResult, *serviceerror.ServiceError)
}

type aggregationService struct {
	stores   *stores.StoreRegistry
	catalog  catalog.Catalog
	checker  *authz.Checker
	pipeline *Pipeline
	logger   *log.Logger
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(registry *stores.StoreRegistry, cat catalog.Catalog, resolver maintainer.Resolver,
	checker *authz.Checker) AggregationService {
	return &aggregationService{
		stores:   registry,
		catalog:  cat,
		checker:  checker,
		pipeline: NewPipeline(cat, resolver, registry.Counters),
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AggregationService")),
	}
}

// OrganizationView aggregates the requests filed against org's datasets.
// The organization filter does not apply in this scope.
func (s *aggregationService) OrganizationView(ctx context.Context, principal *security.Principal, org string,
	params model.ViewParams) (*model.View, *serviceerror.ServiceError) {
	result, err := s.checker.CanViewOrganization(ctx, principal, org)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.CatalogError, err.Error())
	}
	if svcErr := result.ToServiceError(); svcErr != nil {
		return nil, svcErr
	}

	organization, err := s.catalog.GetOrganization(ctx, org)
	if err != nil {
		return nil, catalog.ServiceErrorFor(err, "organization", org)
	}
	datasets, err := s.catalog.ListDatasetsForOrganization(ctx, organization.ID)
	if err != nil {
		return nil, catalog.ServiceErrorFor(err, "organization", org)
	}
	packageIDs := make([]string, 0, len(datasets))
	for _, d := range datasets {
		packageIDs = append(packageIDs, d.ID)
	}

	requests, svcErr := s.search(ctx, requestmodel.RequestSearchFilters{PackageIDs: packageIDs})
	if svcErr != nil {
		return nil, svcErr
	}

	params.Organizations = nil
	view, svcErr := s.run(ctx, requests, params)
	if svcErr != nil {
		return nil, svcErr
	}
	view.OrganizationsForFilters = nil
	if len(view.Organizations) == 0 {
		view.Organizations = append(view.Organizations, NewOrganizationView(organization, OrderFor(organization, params.Orders)))
	}
	return view, nil
}

// AdminView aggregates every request, grouped per organization, with the
// organization tallies and the grand total of all counters.
func (s *aggregationService) AdminView(ctx context.Context, principal *security.Principal,
	params model.ViewParams) (*model.View, *serviceerror.ServiceError) {
	if svcErr := s.checker.CanViewAll(principal).ToServiceError(); svcErr != nil {
		return nil, svcErr
	}

	requests, svcErr := s.search(ctx, requestmodel.RequestSearchFilters{})
	if svcErr != nil {
		return nil, svcErr
	}

	view, svcErr := s.run(ctx, requests, params)
	if svcErr != nil {
		return nil, svcErr
	}

	all, err := s.stores.Counters.GetAll(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load counters: %v", err))
	}
	var total countersmodel.RequestCounters
	for _, c := range all {
		total.Add(c)
	}
	view.TotalCounters = &total
	return view, nil
}

// CanTakeActions returns the success/message pair used to gate request actions in the UI.
func (s *aggregationService) CanTakeActions(ctx context.Context, principal *security.Principal,
	org string) (*authz.AuthResult, *serviceerror.ServiceError) {
	result, err := s.checker.CanTakeActions(ctx, principal, org)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.CatalogError, err.Error())
	}
	return &result, nil
}

// search loads every matching request newest first. The views tally and group
// the whole set, so no limit applies.
func (s *aggregationService) search(ctx context.Context, filters requestmodel.RequestSearchFilters) ([]requestmodel.DataRequest, *serviceerror.ServiceError) {
	filters.OrderBy = "created_at"
	filters.Limit = 0
	requests, err := s.stores.DataRequest.Search(ctx, filters)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to search requests: %v", err))
	}
	return requests, nil
}

func (s *aggregationService) run(ctx context.Context, requests []requestmodel.DataRequest,
	params model.ViewParams) (*model.View, *serviceerror.ServiceError) {
	view, err := s.pipeline.Run(ctx, requests, params)
	if err != nil {
		s.logger.WithContext(ctx).Error("Failed to aggregate requests", log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, fmt.Sprintf("failed to build request view: %v", err))
	}
	return view, nil
}
