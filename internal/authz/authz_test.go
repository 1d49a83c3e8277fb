package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/data-request-api/internal/catalog/mocks"
	"github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/security"
)

var dataset = &model.Dataset{ID: "pkg-1", OwnerOrg: "org-1", CreatorUserID: "u-creator"}

func adminOf(orgs ...model.Organization) *mocks.MockCatalog {
	m := &mocks.MockCatalog{}
	m.On("ListOrganizationsForUser", mock.Anything, mock.Anything, "admin").Return(orgs, nil)
	return m
}

func TestCanCreate(t *testing.T) {
	c := NewChecker(&mocks.MockCatalog{})
	assert.False(t, c.CanCreate(security.Anonymous()).Success)
	assert.True(t, c.CanCreate(&security.Principal{UserID: "u-1"}).Success)
}

func TestCanManageDataset(t *testing.T) {
	testCases := []struct {
		name      string
		principal *security.Principal
		orgs      []model.Organization
		want      bool
	}{
		{name: "anonymous", principal: security.Anonymous(), want: false},
		{name: "sysadmin", principal: &security.Principal{UserID: "root", Sysadmin: true}, want: true},
		{name: "creator", principal: &security.Principal{UserID: "u-creator"}, want: true},
		{name: "org admin by id", principal: &security.Principal{UserID: "u-admin"},
			orgs: []model.Organization{{ID: "org-1", Name: "unicef"}}, want: true},
		{name: "admin elsewhere", principal: &security.Principal{UserID: "u-other"},
			orgs: []model.Organization{{ID: "org-2", Name: "wfp"}}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewChecker(adminOf(tc.orgs...))
			result, err := c.CanManageDataset(context.Background(), tc.principal, dataset)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Success)
			if !tc.want {
				assert.NotEmpty(t, result.Msg)
			}
		})
	}
}

func TestCanManageDataset_CatalogFailure(t *testing.T) {
	orgs := &mocks.MockCatalog{}
	orgs.On("ListOrganizationsForUser", mock.Anything, "u-x", "admin").Return(nil, errors.New("down"))

	_, err := NewChecker(orgs).CanManageDataset(context.Background(), &security.Principal{UserID: "u-x"}, dataset)
	assert.Error(t, err)
}

func TestCanViewOrganization_MatchesByName(t *testing.T) {
	c := NewChecker(adminOf(model.Organization{ID: "org-1", Name: "unicef"}))
	result, err := c.CanViewOrganization(context.Background(), &security.Principal{UserID: "u-admin"}, "unicef")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestCanViewAll(t *testing.T) {
	c := NewChecker(&mocks.MockCatalog{})
	assert.True(t, c.CanViewAll(&security.Principal{UserID: "root", Sysadmin: true}).Success)
	assert.False(t, c.CanViewAll(&security.Principal{UserID: "u-1"}).Success)
	assert.True(t, c.CanViewAll(security.System()).Success)
}

func TestCanTakeActions(t *testing.T) {
	c := NewChecker(adminOf())
	result, err := c.CanTakeActions(context.Background(), &security.Principal{UserID: "u-1"}, "unicef")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Msg, "unicef")
}

func TestToServiceError(t *testing.T) {
	assert.Nil(t, AuthResult{Success: true}.ToServiceError())

	err := AuthResult{Msg: "nope"}.ToServiceError()
	require.NotNil(t, err)
	assert.True(t, serviceerror.Is(err, serviceerror.AuthorizationError))
	assert.Equal(t, "nope", err.ErrorDescription)
}
