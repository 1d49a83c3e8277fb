package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/catalog/mocks"
	"github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/system/security"
)

func TestPrincipalLookup(t *testing.T) {
	cat := &mocks.MockCatalog{}
	cat.On("GetIdentity", mock.Anything, "jane").
		Return(&model.Identity{ID: "u-jane", Name: "jane", Sysadmin: true}, nil)
	cat.On("GetIdentity", mock.Anything, "ghost").Return(nil, catalog.ErrNotFound)
	cat.On("GetIdentity", mock.Anything, "flaky").Return(nil, errors.New("timeout"))

	lookup := catalog.PrincipalLookup(cat)

	principal, err := lookup(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, &security.Principal{UserID: "u-jane", Name: "jane", Sysadmin: true}, principal)

	principal, err = lookup(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, principal)

	_, err = lookup(context.Background(), "flaky")
	assert.Error(t, err)
}
