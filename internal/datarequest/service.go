package datarequest

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	catalogmodel "github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/counters"
	countersmodel "github.com/wso2/data-request-api/internal/counters/model"
	"github.com/wso2/data-request-api/internal/datarequest/model"
	"github.com/wso2/data-request-api/internal/datarequest/validator"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/notification"
	"github.com/wso2/data-request-api/internal/system/constants"
	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/stores"
	"github.com/wso2/data-request-api/internal/system/utils"
)

// DataRequestService defines the request lifecycle operations
type DataRequestService interface {
	Create(ctx context.Context, principal *security.Principal, req model.CreateRequest) (*model.CreateResult, *serviceerror.ServiceError)
	Show(ctx context.Context, principal *security.Principal, requestID, packageID string) (*model.RequestDetail, *serviceerror.ServiceError)
	List(ctx context.Context, principal *security.Principal, scope model.Scope, orgID string) ([]model.DataRequest, *serviceerror.ServiceError)
	Patch(ctx context.Context, principal *security.Principal, requestID, packageID string, req model.PatchRequest) (*model.DataRequest, *serviceerror.ServiceError)
	Respond(ctx context.Context, principal *security.Principal, requestID, packageID string, action model.Action) (*model.DataRequest, *serviceerror.ServiceError)
}

// ServiceOptions holds deployment switches for the lifecycle.
type ServiceOptions struct {
	AllowPublicView bool
}

type dataRequestService struct {
	stores   *stores.StoreRegistry
	catalog  catalog.Catalog
	resolver maintainer.Resolver
	checker  *authz.Checker
	options  ServiceOptions
	logger   *log.Logger
}

// NewDataRequestService creates a new request lifecycle service
func NewDataRequestService(registry *stores.StoreRegistry, cat catalog.Catalog, resolver maintainer.Resolver,
	checker *authz.Checker, options ServiceOptions) DataRequestService {
	return &dataRequestService{
		stores:   registry,
		catalog:  cat,
		resolver: resolver,
		checker:  checker,
		options:  options,
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DataRequestService")),
	}
}

// Create files a new request against a dataset. The request, its maintainer
// snapshot, the dataset's counters and the maintainers' notifications are
// written in one transaction.
func (s *dataRequestService) Create(ctx context.Context, principal *security.Principal,
	req model.CreateRequest) (*model.CreateResult, *serviceerror.ServiceError) {
	if err := s.checker.CanCreate(principal).ToServiceError(); err != nil {
		return nil, err
	}
	if err := validator.ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	dataset, err := s.catalog.GetDataset(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, serviceerror.FieldValidationError(map[string]string{"packageId": "dataset not found"})
		}
		return nil, catalog.ServiceErrorFor(err, "dataset", req.PackageID)
	}

	maintainers, orgAdmins := s.resolveRecipients(ctx, dataset)

	now := utils.GetCurrentTimeMillis()
	request := &model.DataRequest{
		ID:             utils.GenerateUUID(),
		SenderName:     req.SenderName,
		SenderUserID:   principal.UserID,
		Organization:   req.Organization,
		EmailAddress:   req.EmailAddress,
		MessageContent: req.MessageContent,
		PackageID:      dataset.ID,
		State:          model.StateNew,
		CreatedAt:      now,
		ModifiedAt:     now,
	}
	assignments := buildAssignments(request.ID, maintainers)

	recipients := resolvedIDs(maintainers)
	if len(recipients) == 0 {
		recipients = orgAdmins
	}
	recipients = notification.UniqueIDs(recipients)

	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return s.stores.DataRequest.Create(tx, request)
		},
		func(tx dbmodel.TxInterface) error {
			return s.stores.DataRequest.CreateMaintainers(tx, assignments)
		},
		func(tx dbmodel.TxInterface) error {
			return s.stores.Counters.Increment(tx, dataset.ID, dataset.OwnerOrg, countersmodel.FlagRequest)
		},
	}
	queries = append(queries, notification.UpsertQueries(s.stores, recipients)...)

	if err := s.stores.ExecuteTransaction(ctx, queries); err != nil {
		return nil, transactionError(err, dataset.ID, "failed to create data request")
	}

	s.logger.WithContext(ctx).Info("Data request created",
		log.String("request_id", request.ID),
		log.String("package_id", dataset.ID),
		log.Int("maintainers", len(assignments)),
		log.Int("notified", len(recipients)))

	return &model.CreateResult{Request: *request, Maintainers: assignments}, nil
}

// resolveRecipients resolves the dataset's maintainers and, alongside, the
// owning organization's admins who are notified when no maintainer resolves.
// Neither lookup fails the request.
func (s *dataRequestService) resolveRecipients(ctx context.Context, dataset *catalogmodel.Dataset) ([]maintainer.Maintainer, []string) {
	var (
		maintainers []maintainer.Maintainer
		admins      []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		maintainers = s.resolver.Resolve(gctx, dataset.Maintainer)
		return nil
	})
	if dataset.OwnerOrg != "" {
		g.Go(func() error {
			org, err := s.catalog.GetOrganization(gctx, dataset.OwnerOrg)
			if err != nil {
				s.logger.WithContext(ctx).Warn("Could not load organization admins",
					log.String("org_id", dataset.OwnerOrg), log.Error(err))
				return nil
			}
			admins = org.MemberIDsWithCapacity(constants.OrganizationAdminCapacity)
			return nil
		})
	}
	_ = g.Wait()

	return maintainers, admins
}

// buildAssignments keeps one assignment per distinct maintainer token. Two
// tokens naming the same user each keep their row.
func buildAssignments(requestID string, maintainers []maintainer.Maintainer) []model.MaintainerAssignment {
	seen := make(map[string]struct{}, len(maintainers))
	assignments := make([]model.MaintainerAssignment, 0, len(maintainers))
	for _, m := range maintainers {
		if _, ok := seen[m.Raw]; ok {
			continue
		}
		seen[m.Raw] = struct{}{}
		assignments = append(assignments, model.MaintainerAssignment{
			RequestID:    requestID,
			MaintainerID: m.ID,
			Email:        m.Email,
		})
	}
	return assignments
}

func resolvedIDs(maintainers []maintainer.Maintainer) []string {
	ids := make([]string, 0, len(maintainers))
	for _, m := range maintainers {
		if m.IsResolved() {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Show returns one request with its maintainer snapshot.
func (s *dataRequestService) Show(ctx context.Context, principal *security.Principal,
	requestID, packageID string) (*model.RequestDetail, *serviceerror.ServiceError) {
	request, svcErr := s.load(ctx, requestID, packageID)
	if svcErr != nil {
		return nil, svcErr
	}

	if !s.options.AllowPublicView {
		if _, svcErr := s.authorizeDataset(ctx, principal, request.PackageID); svcErr != nil {
			return nil, svcErr
		}
	}

	assignments, err := s.stores.DataRequest.GetMaintainers(ctx, request.ID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to load maintainers: %v", err))
	}
	return &model.RequestDetail{DataRequest: *request, Maintainers: assignments}, nil
}

// List returns the requests visible in scope, newest first.
func (s *dataRequestService) List(ctx context.Context, principal *security.Principal, scope model.Scope,
	orgID string) ([]model.DataRequest, *serviceerror.ServiceError) {
	filters := model.RequestSearchFilters{
		OrderBy: "created_at",
		Limit:   constants.SearchResultLimit,
	}

	switch scope {
	case model.ScopeCurrentUser:
		if principal.IsAnonymous() {
			return nil, serviceerror.CustomServiceError(serviceerror.AuthorizationError,
				"you must be logged in to list your requests")
		}
		filters.MaintainerID = principal.UserID

	case model.ScopeOrganization:
		if err := utils.ValidateRequired("org_id", orgID); err != nil {
			return nil, err
		}
		packageIDs, svcErr := s.organizationPackageIDs(ctx, principal, orgID)
		if svcErr != nil {
			return nil, svcErr
		}
		filters.PackageIDs = packageIDs

	case model.ScopeAll:
		if err := s.checker.CanViewAll(principal).ToServiceError(); err != nil {
			return nil, err
		}

	default:
		return nil, serviceerror.FieldValidationError(map[string]string{"scope": "unsupported scope"})
	}

	return s.search(ctx, filters)
}

// organizationPackageIDs checks the principal may view org and lists the ids of its datasets.
func (s *dataRequestService) organizationPackageIDs(ctx context.Context, principal *security.Principal,
	org string) ([]string, *serviceerror.ServiceError) {
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

	ids := make([]string, 0, len(datasets))
	for _, d := range datasets {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *dataRequestService) search(ctx context.Context, filters model.RequestSearchFilters) ([]model.DataRequest, *serviceerror.ServiceError) {
	requests, err := s.stores.DataRequest.Search(ctx, filters)
	if err != nil {
		if errors.Is(err, model.ErrUnsupportedFilter) {
			return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
		}
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to search requests: %v", err))
	}
	return requests, nil
}

// Patch applies the fields present in req. modified_at always advances, even
// when nothing else changes.
func (s *dataRequestService) Patch(ctx context.Context, principal *security.Principal, requestID, packageID string,
	req model.PatchRequest) (*model.DataRequest, *serviceerror.ServiceError) {
	if err := validator.ValidatePatchRequest(req); err != nil {
		return nil, err
	}

	existing, _, svcErr := s.loadForUpdate(ctx, principal, requestID, packageID)
	if svcErr != nil {
		return nil, svcErr
	}
	return s.update(ctx, existing, req, nil)
}

// respondTransition describes what a maintainer action does to a request.
type respondTransition struct {
	from       model.State
	to         model.State
	dataShared *bool
	rejected   *bool
	flag       countersmodel.Flag
}

func boolPtr(b bool) *bool {
	return &b
}

var respondTransitions = map[model.Action]respondTransition{
	model.ActionReply:         {from: model.StateNew, to: model.StateOpen, flag: countersmodel.FlagReplied},
	model.ActionReject:        {from: model.StateNew, to: model.StateArchive, rejected: boolPtr(true), flag: countersmodel.FlagDeclined},
	model.ActionShare:         {from: model.StateOpen, to: model.StateArchive, dataShared: boolPtr(true), flag: countersmodel.FlagShared},
	model.ActionReplyAndShare: {from: model.StateNew, to: model.StateArchive, dataShared: boolPtr(true), flag: countersmodel.FlagSharedAndReplied},
	model.ActionNotShared:     {from: model.StateOpen, to: model.StateArchive, dataShared: boolPtr(false)},
}

// Respond runs a maintainer action: the state change and the matching counter
// increment commit together.
func (s *dataRequestService) Respond(ctx context.Context, principal *security.Principal, requestID, packageID string,
	action model.Action) (*model.DataRequest, *serviceerror.ServiceError) {
	transition, ok := respondTransitions[action]
	if !ok {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, fmt.Sprintf("unknown action '%s'", action))
	}

	existing, dataset, svcErr := s.loadForUpdate(ctx, principal, requestID, packageID)
	if svcErr != nil {
		return nil, svcErr
	}
	if existing.State != transition.from {
		return nil, serviceerror.CustomServiceError(serviceerror.ConflictError,
			fmt.Sprintf("cannot %s a request in state '%s'", action, existing.State))
	}

	to := string(transition.to)
	patch := model.PatchRequest{State: &to, DataShared: transition.dataShared, Rejected: transition.rejected}

	var extra []func(tx dbmodel.TxInterface) error
	if transition.flag != "" {
		extra = append(extra, func(tx dbmodel.TxInterface) error {
			return s.stores.Counters.Increment(tx, dataset.ID, dataset.OwnerOrg, transition.flag)
		})
	}

	updated, svcErr := s.update(ctx, existing, patch, extra)
	if svcErr != nil {
		return nil, svcErr
	}
	s.logger.WithContext(ctx).Info("Maintainer responded to data request",
		log.String("request_id", updated.ID), log.String("action", string(action)))
	return updated, nil
}

func (s *dataRequestService) update(ctx context.Context, existing *model.DataRequest, req model.PatchRequest,
	extra []func(tx dbmodel.TxInterface) error) (*model.DataRequest, *serviceerror.ServiceError) {
	updated := *existing
	if req.State != nil {
		next := model.State(*req.State)
		if !existing.State.CanTransitionTo(next) {
			return nil, serviceerror.CustomServiceError(serviceerror.ConflictError,
				fmt.Sprintf("cannot move request from '%s' to '%s'", existing.State, next))
		}
		updated.State = next
	}
	if req.DataShared != nil {
		updated.DataShared = *req.DataShared
	}
	if req.Rejected != nil {
		updated.Rejected = *req.Rejected
	}
	updated.ModifiedAt = utils.NextTimestamp(existing.ModifiedAt)

	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return s.stores.DataRequest.Update(tx, &updated, existing.ModifiedAt)
		},
	}
	queries = append(queries, extra...)

	if err := s.stores.ExecuteTransaction(ctx, queries); err != nil {
		if errors.Is(err, model.ErrRequestModified) {
			return nil, serviceerror.CustomServiceError(serviceerror.ConflictError,
				fmt.Sprintf("request '%s' was modified by another user, reload and retry", existing.ID))
		}
		return nil, transactionError(err, existing.PackageID, "failed to update data request")
	}
	return &updated, nil
}

// transactionError reports a counter upsert that applied nothing as a conflict
// and any other failure as a database error.
func transactionError(err error, packageID, message string) *serviceerror.ServiceError {
	if errors.Is(err, countersmodel.ErrCounterNotApplied) {
		return counters.IncrementError(err, packageID)
	}
	return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("%s: %v", message, err))
}

func (s *dataRequestService) load(ctx context.Context, requestID, packageID string) (*model.DataRequest, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("id", requestID); err != nil {
		return nil, err
	}
	request, err := s.stores.DataRequest.GetByID(ctx, requestID, packageID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to retrieve request: %v", err))
	}
	if request == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("request '%s' not found", requestID))
	}
	return request, nil
}

func (s *dataRequestService) loadForUpdate(ctx context.Context, principal *security.Principal, requestID,
	packageID string) (*model.DataRequest, *catalogmodel.Dataset, *serviceerror.ServiceError) {
	request, svcErr := s.load(ctx, requestID, packageID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	dataset, svcErr := s.authorizeDataset(ctx, principal, request.PackageID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	return request, dataset, nil
}

func (s *dataRequestService) authorizeDataset(ctx context.Context, principal *security.Principal,
	packageID string) (*catalogmodel.Dataset, *serviceerror.ServiceError) {
	dataset, err := s.catalog.GetDataset(ctx, packageID)
	if err != nil {
		return nil, catalog.ServiceErrorFor(err, "dataset", packageID)
	}
	result, err := s.checker.CanManageDataset(ctx, principal, dataset)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.CatalogError, err.Error())
	}
	if svcErr := result.ToServiceError(); svcErr != nil {
		return nil, svcErr
	}
	return dataset, nil
}
