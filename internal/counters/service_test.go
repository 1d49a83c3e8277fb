package counters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	catalogmocks "github.com/wso2/data-request-api/internal/catalog/mocks"
	catalogmodel "github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/counters/model"
	dbmocks "github.com/wso2/data-request-api/internal/system/database/provider/mocks"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/security"
	"github.com/wso2/data-request-api/internal/system/stores"
	storemocks "github.com/wso2/data-request-api/internal/system/stores/mocks"
)

type fixture struct {
	service  CountersService
	catalog  *catalogmocks.MockCatalog
	counters *storemocks.MockCountersStore
	tx       *dbmocks.MockTx
}

func newFixture() *fixture {
	tx := &dbmocks.MockTx{}
	tx.On("Commit").Return(nil).Maybe()
	tx.On("Rollback").Return(nil).Maybe()
	client := &dbmocks.MockDBClient{}
	client.On("BeginTx", mock.Anything).Return(tx, nil).Maybe()

	cat := &catalogmocks.MockCatalog{}
	counters := &storemocks.MockCountersStore{}
	registry := stores.NewStoreRegistry(client, nil, counters, nil)
	return &fixture{
		service:  NewCountersService(registry, cat, authz.NewChecker(cat)),
		catalog:  cat,
		counters: counters,
		tx:       tx,
	}
}

var (
	dataset   = &catalogmodel.Dataset{ID: "pkg-1", OwnerOrg: "org-1", CreatorUserID: "u-creator"}
	creator   = &security.Principal{UserID: "u-creator"}
	stranger  = &security.Principal{UserID: "u-stranger"}
	sysadmin  = &security.Principal{UserID: "root", Sysadmin: true}
	pkgTotals = &model.RequestCounters{PackageID: "pkg-1", OrgID: "org-1", Requests: 1, Shared: 1, Replied: 1}
)

func TestIncrement_ByDatasetCreator(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetDataset", mock.Anything, "pkg-1").Return(dataset, nil)
	f.counters.On("Increment", f.tx, "pkg-1", "org-1", model.FlagSharedAndReplied).Return(nil).Once()
	f.counters.On("GetByPackageID", mock.Anything, "pkg-1").Return(pkgTotals, nil)

	got, err := f.service.Increment(context.Background(), creator, "pkg-1", model.FlagSharedAndReplied)
	require.Nil(t, err)
	assert.Equal(t, pkgTotals, got)
	f.counters.AssertExpectations(t)
	f.tx.AssertCalled(t, "Commit")
}

func TestIncrement_SystemPrincipalSkipsMembershipCheck(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetDataset", mock.Anything, "pkg-1").Return(dataset, nil)
	f.counters.On("Increment", mock.Anything, "pkg-1", "org-1", model.FlagReplied).Return(nil)
	f.counters.On("GetByPackageID", mock.Anything, "pkg-1").Return(pkgTotals, nil)

	_, err := f.service.Increment(context.Background(), security.System(), "pkg-1", model.FlagReplied)
	require.Nil(t, err)
	f.catalog.AssertNotCalled(t, "ListOrganizationsForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestIncrement_Failures(t *testing.T) {
	testCases := []struct {
		name      string
		principal *security.Principal
		packageID string
		flag      model.Flag
		setup     func(f *fixture)
		want      serviceerror.ServiceError
	}{
		{
			name: "unknown flag", principal: sysadmin, packageID: "pkg-1", flag: "approved",
			setup: func(f *fixture) {},
			want:  serviceerror.ValidationError,
		},
		{
			name: "missing package id", principal: sysadmin, packageID: " ", flag: model.FlagRequest,
			setup: func(f *fixture) {},
			want:  serviceerror.ValidationError,
		},
		{
			name: "unknown dataset", principal: sysadmin, packageID: "pkg-x", flag: model.FlagRequest,
			setup: func(f *fixture) {
				f.catalog.On("GetDataset", mock.Anything, "pkg-x").Return(nil, catalog.ErrNotFound)
			},
			want: serviceerror.ResourceNotFoundError,
		},
		{
			name: "not a manager", principal: stranger, packageID: "pkg-1", flag: model.FlagShared,
			setup: func(f *fixture) {
				f.catalog.On("GetDataset", mock.Anything, "pkg-1").Return(dataset, nil)
				f.catalog.On("ListOrganizationsForUser", mock.Anything, "u-stranger", "admin").
					Return([]catalogmodel.Organization{}, nil)
			},
			want: serviceerror.AuthorizationError,
		},
		{
			name: "upsert not applied", principal: sysadmin, packageID: "pkg-1", flag: model.FlagShared,
			setup: func(f *fixture) {
				f.catalog.On("GetDataset", mock.Anything, "pkg-1").Return(dataset, nil)
				f.counters.On("Increment", mock.Anything, "pkg-1", "org-1", model.FlagShared).
					Return(model.ErrCounterNotApplied)
			},
			want: serviceerror.ConflictError,
		},
		{
			name: "database failure", principal: sysadmin, packageID: "pkg-1", flag: model.FlagShared,
			setup: func(f *fixture) {
				f.catalog.On("GetDataset", mock.Anything, "pkg-1").Return(dataset, nil)
				f.counters.On("Increment", mock.Anything, "pkg-1", "org-1", model.FlagShared).
					Return(errors.New("deadlock"))
			},
			want: serviceerror.DatabaseError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			tc.setup(f)

			got, err := f.service.Increment(context.Background(), tc.principal, tc.packageID, tc.flag)
			assert.Nil(t, got)
			require.NotNil(t, err)
			assert.Equal(t, tc.want.Code, err.Code)
		})
	}
}

func TestGet_NoCountersIsNotFound(t *testing.T) {
	f := newFixture()
	f.counters.On("GetByPackageID", mock.Anything, "pkg-2").Return(nil, nil)

	_, err := f.service.Get(context.Background(), "pkg-2")
	require.NotNil(t, err)
	assert.True(t, serviceerror.Is(err, serviceerror.ResourceNotFoundError))
}

func TestGetForOrganization_ResolvesNameAndSums(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetOrganization", mock.Anything, "unicef").
		Return(&catalogmodel.Organization{ID: "org-1", Name: "unicef"}, nil)
	f.counters.On("GetByOrgID", mock.Anything, "org-1").Return([]model.RequestCounters{
		{PackageID: "pkg-1", OrgID: "org-1", Requests: 2, Replied: 1},
		{PackageID: "pkg-2", OrgID: "org-1", Requests: 3, Declined: 1, Shared: 2},
	}, nil)

	summary, err := f.service.GetForOrganization(context.Background(), "unicef")
	require.Nil(t, err)
	assert.Len(t, summary.Counters, 2)
	assert.Equal(t, model.RequestCounters{Requests: 5, Replied: 1, Declined: 1, Shared: 2}, summary.Totals)
}

func TestGetAll_SysadminOnly(t *testing.T) {
	f := newFixture()
	f.counters.On("GetAll", mock.Anything).Return([]model.RequestCounters{{PackageID: "pkg-1", Requests: 4}}, nil)

	_, err := f.service.GetAll(context.Background(), stranger)
	require.NotNil(t, err)
	assert.True(t, serviceerror.Is(err, serviceerror.AuthorizationError))

	summary, err := f.service.GetAll(context.Background(), sysadmin)
	require.Nil(t, err)
	assert.Equal(t, int64(4), summary.Totals.Requests)
}
