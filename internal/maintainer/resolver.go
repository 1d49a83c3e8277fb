// Package maintainer resolves a dataset's raw maintainer field into user identities.
package maintainer

import (
	"context"
	"regexp"
	"strings"

	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/system/log"
)

// Status tells whether a maintainer token matched a known identity.
type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
)

// Maintainer is one token of a maintainer field after resolution. An
// unresolved maintainer keeps the raw token as both ID and Email.
type Maintainer struct {
	Status   Status
	Raw      string
	ID       string
	Email    string
	Identity *model.Identity
}

// IsResolved reports whether the token matched an identity.
func (m Maintainer) IsResolved() bool {
	return m.Status == StatusResolved
}

func resolved(raw string, identity *model.Identity) Maintainer {
	return Maintainer{Status: StatusResolved, Raw: raw, ID: identity.ID, Email: identity.Email, Identity: identity}
}

func unresolved(raw string) Maintainer {
	return Maintainer{Status: StatusUnresolved, Raw: raw, ID: raw, Email: raw}
}

// Resolver turns maintainer fields and single tokens into identities.
// It never fails: lookup errors degrade to an unresolved maintainer.
type Resolver interface {
	Resolve(ctx context.Context, rawField string) []Maintainer
	ResolveIdentity(ctx context.Context, token string) (*model.Identity, bool)
}

type resolver struct {
	identities catalog.IdentityProvider
	hdxMode    bool
	logger     *log.Logger
}

// NewResolver creates a resolver. In HDX mode tokens are identity-system names:
// each is looked up and then confirmed by a second lookup on the returned id.
func NewResolver(identities catalog.IdentityProvider, hdxMode bool) Resolver {
	return &resolver{
		identities: identities,
		hdxMode:    hdxMode,
		logger:     log.GetLogger().With(log.String(log.LoggerKeyComponentName, "MaintainerResolver")),
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LooksLikeEmail reports whether token has the shape of an email address.
func LooksLikeEmail(token string) bool {
	return emailPattern.MatchString(token)
}

// SplitField splits a maintainer field on commas, trimming blanks. Duplicates are kept.
func SplitField(rawField string) []string {
	tokens := make([]string, 0)
	for _, part := range strings.Split(rawField, ",") {
		if token := strings.TrimSpace(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Resolve resolves every token of rawField in order.
func (r *resolver) Resolve(ctx context.Context, rawField string) []Maintainer {
	tokens := SplitField(rawField)
	maintainers := make([]Maintainer, 0, len(tokens))
	for _, token := range tokens {
		maintainers = append(maintainers, r.resolveToken(ctx, token))
	}
	return maintainers
}

// ResolveIdentity returns the identity behind a single id, name or email.
func (r *resolver) ResolveIdentity(ctx context.Context, token string) (*model.Identity, bool) {
	m := r.resolveToken(ctx, token)
	return m.Identity, m.IsResolved()
}

func (r *resolver) resolveToken(ctx context.Context, token string) Maintainer {
	identity, err := r.lookup(ctx, token)
	if err != nil || identity == nil || identity.ID == "" {
		if err != nil {
			r.logger.WithContext(ctx).Debug("Maintainer token left unresolved",
				log.String("token", token), log.Error(err))
		}
		return unresolved(token)
	}
	return resolved(token, identity)
}

func (r *resolver) lookup(ctx context.Context, token string) (*model.Identity, error) {
	if r.hdxMode {
		identity, err := r.identities.GetIdentity(ctx, token)
		if err != nil || identity == nil {
			return nil, err
		}
		return r.identities.GetIdentity(ctx, identity.ID)
	}
	if LooksLikeEmail(token) {
		return r.identities.FindIdentityByEmail(ctx, token)
	}
	return r.identities.GetIdentity(ctx, token)
}
