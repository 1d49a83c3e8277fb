package catalog

import (
	"context"
	"errors"

	"github.com/wso2/data-request-api/internal/system/security"
)

// PrincipalLookup resolves the user id asserted by the gateway through the identity directory.
// An unknown user yields a nil principal.
func PrincipalLookup(identities IdentityProvider) func(ctx context.Context, userID string) (*security.Principal, error) {
	return func(ctx context.Context, userID string) (*security.Principal, error) {
		identity, err := identities.GetIdentity(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &security.Principal{UserID: identity.ID, Name: identity.Name, Sysadmin: identity.Sysadmin}, nil
	}
}
