package counters

import (
	"context"
	"errors"
	"fmt"

	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/counters/model"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/stores"
	"github.com/wso2/data-request-api/internal/system/utils"
)

// CountersSummary lists counters together with their sum.
type CountersSummary struct {
	Counters []model.RequestCounters `json:"counters"`
	Totals   model.RequestCounters   `json:"totals"`
}

// CountersService defines the interface for counter operations
type CountersService interface {
	Increment(ctx context.Context, principal *security.Principal, packageID string, flag model.Flag) (*model.RequestCounters, *serviceerror.ServiceError)
	Get(ctx context.Context, packageID string) (*model.RequestCounters, *serviceerror.ServiceError)
	GetForOrganization(ctx context.Context, org string) (*CountersSummary, *serviceerror.ServiceError)
	GetAll(ctx context.Context, principal *security.Principal) (*CountersSummary, *serviceerror.ServiceError)
}

type countersService struct {
	stores   *stores.StoreRegistry
	datasets catalog.DatasetProvider
	orgs     catalog.OrganizationProvider
	checker  *authz.Checker
	logger   *log.Logger
}

// NewCountersService creates a new counters service
func NewCountersService(registry *stores.StoreRegistry, cat catalog.Catalog, checker *authz.Checker) CountersService {
	return &countersService{
		stores:   registry,
		datasets: cat,
		orgs:     cat,
		checker:  checker,
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CountersService")),
	}
}

// Increment records one outcome for a dataset. Only principals able to manage
// the dataset may move its counters; sysadmins and operator tooling always can.
func (s *countersService) Increment(ctx context.Context, principal *security.Principal, packageID string,
	flag model.Flag) (*model.RequestCounters, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("packageId", packageID); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(model.IncrementRequest{Flag: string(flag)}); err != nil {
		return nil, err
	}

	dataset, err := s.datasets.GetDataset(ctx, packageID)
	if err != nil {
		return nil, catalog.ServiceErrorFor(err, "dataset", packageID)
	}

	if !principal.IsSysadmin() {
		result, err := s.checker.CanManageDataset(ctx, principal, dataset)
		if err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.CatalogError, err.Error())
		}
		if svcErr := result.ToServiceError(); svcErr != nil {
			return nil, svcErr
		}
	}

	err = s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return s.stores.Counters.Increment(tx, dataset.ID, dataset.OwnerOrg, flag)
		},
	})
	if err != nil {
		return nil, IncrementError(err, dataset.ID)
	}

	s.logger.WithContext(ctx).Debug("Counters incremented",
		log.String("package_id", dataset.ID), log.String("flag", string(flag)))

	return s.Get(ctx, dataset.ID)
}

// IncrementError maps a failed counter upsert onto a ServiceError.
func IncrementError(err error, packageID string) *serviceerror.ServiceError {
	if errors.Is(err, model.ErrCounterNotApplied) {
		return serviceerror.CustomServiceError(serviceerror.ConflictError,
			fmt.Sprintf("counters for package '%s' could not be updated", packageID))
	}
	return serviceerror.CustomServiceError(serviceerror.DatabaseError,
		fmt.Sprintf("failed to increment counters: %v", err))
}

// Get returns the counters of one dataset.
func (s *countersService) Get(ctx context.Context, packageID string) (*model.RequestCounters, *serviceerror.ServiceError) {
	counters, err := s.stores.Counters.GetByPackageID(ctx, packageID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to retrieve counters: %v", err))
	}
	if counters == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("no counters recorded for package '%s'", packageID))
	}
	return counters, nil
}

// GetForOrganization returns the counters of every dataset owned by org (id or name).
func (s *countersService) GetForOrganization(ctx context.Context, org string) (*CountersSummary, *serviceerror.ServiceError) {
	organization, err := s.orgs.GetOrganization(ctx, org)
	if err != nil {
		return nil, catalog.ServiceErrorFor(err, "organization", org)
	}

	counters, err := s.stores.Counters.GetByOrgID(ctx, organization.ID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to retrieve counters: %v", err))
	}
	return summarize(counters), nil
}

// GetAll returns every counter row. Sysadmin only.
func (s *countersService) GetAll(ctx context.Context, principal *security.Principal) (*CountersSummary, *serviceerror.ServiceError) {
	if svcErr := s.checker.CanViewAll(principal).ToServiceError(); svcErr != nil {
		return nil, svcErr
	}

	counters, err := s.stores.Counters.GetAll(ctx)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to retrieve counters: %v", err))
	}
	return summarize(counters), nil
}

func summarize(counters []model.RequestCounters) *CountersSummary {
	summary := &CountersSummary{Counters: counters}
	for _, c := range counters {
		summary.Totals.Add(c)
	}
	return summary
}
