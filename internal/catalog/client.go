package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wso2/data-request-api/internal/catalog/model"
	"github.com/wso2/data-request-api/internal/system/config"
	"github.com/wso2/data-request-api/internal/system/constants"
	"github.com/wso2/data-request-api/internal/system/log"
)

const (
	actionPath     = "/api/3/action/"
	searchPageSize = 500
	notFoundType   = "Not Found Error"
)

// Client calls the CKAN action API of the host catalog.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	maintainerField string
	logger          *log.Logger
}

var _ Catalog = (*Client)(nil)

// actionResponse is the envelope every CKAN action returns.
type actionResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *actionError    `json:"error,omitempty"`
}

type actionError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

// NewClient creates a catalog client from configuration
func NewClient(cfg *config.CatalogConfig) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	maintainerField := cfg.MaintainerField
	if maintainerField == "" {
		maintainerField = "maintainer"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		maintainerField: maintainerField,
		logger:          log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CatalogClient")),
	}
}

// GetDataset returns the dataset with the given id or name.
func (c *Client) GetDataset(ctx context.Context, id string) (*model.Dataset, error) {
	var raw map[string]interface{}
	if err := c.callAction(ctx, "package_show", url.Values{"id": {id}}, &raw); err != nil {
		return nil, err
	}
	dataset := c.toDataset(raw)
	return &dataset, nil
}

// ListDatasetsForOrganization pages through package_search for every dataset owned by orgID,
// private ones included.
func (c *Client) ListDatasetsForOrganization(ctx context.Context, orgID string) ([]model.Dataset, error) {
	datasets := make([]model.Dataset, 0)
	for start := 0; ; start += searchPageSize {
		params := url.Values{
			"fq":              {fmt.Sprintf("owner_org:%q", orgID)},
			"rows":            {strconv.Itoa(searchPageSize)},
			"start":           {strconv.Itoa(start)},
			"include_private": {"true"},
		}
		var page struct {
			Count   int                      `json:"count"`
			Results []map[string]interface{} `json:"results"`
		}
		if err := c.callAction(ctx, "package_search", params, &page); err != nil {
			return nil, err
		}
		for _, raw := range page.Results {
			datasets = append(datasets, c.toDataset(raw))
		}
		if len(page.Results) < searchPageSize || len(datasets) >= page.Count {
			return datasets, nil
		}
	}
}

// GetOrganization returns an organization with its members.
func (c *Client) GetOrganization(ctx context.Context, idOrName string) (*model.Organization, error) {
	var org model.Organization
	params := url.Values{
		"id":                {idOrName},
		"include_users":     {"true"},
		"include_datasets":  {"false"},
		"include_extras":    {"false"},
		"include_followers": {"false"},
	}
	if err := c.callAction(ctx, "organization_show", params, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// ListOrganizationsForUser returns the organizations where userID holds permission.
func (c *Client) ListOrganizationsForUser(ctx context.Context, userID, permission string) ([]model.Organization, error) {
	orgs := make([]model.Organization, 0)
	params := url.Values{"id": {userID}, "permission": {permission}}
	if err := c.callAction(ctx, "organization_list_for_user", params, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// GetIdentity returns the user with the given id or name.
func (c *Client) GetIdentity(ctx context.Context, idOrName string) (*model.Identity, error) {
	var identity model.Identity
	if err := c.callAction(ctx, "user_show", url.Values{"id": {idOrName}}, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindIdentityByEmail resolves a user by email address. The host catalog's
// user_show accepts an email in place of the id.
func (c *Client) FindIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	identity, err := c.GetIdentity(ctx, email)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(identity.Email, email) && identity.Email != "" {
		return nil, ErrNotFound
	}
	return identity, nil
}

func (c *Client) toDataset(raw map[string]interface{}) model.Dataset {
	str := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return v
		}
		return ""
	}
	return model.Dataset{
		ID:            str("id"),
		Name:          str("name"),
		Title:         str("title"),
		OwnerOrg:      str("owner_org"),
		CreatorUserID: str("creator_user_id"),
		Maintainer:    str(c.maintainerField),
	}
}

// callAction performs GET /api/3/action/<action> and decodes the result into out.
func (c *Client) callAction(ctx context.Context, action string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + actionPath + action
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if c.apiKey != "" {
		req.Header.Set(constants.AuthorizationHeaderName, c.apiKey)
	}
	if correlationID := log.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(constants.CorrelationIDHeaderName, correlationID)
	}

	logger := c.logger.WithContext(ctx)
	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		logger.Error("Catalog call failed", log.String("action", action), log.Error(err))
		return fmt.Errorf("catalog %s call failed: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}

	logger.Debug("Catalog response received",
		log.String("action", action),
		log.Int("status_code", resp.StatusCode),
		log.Int64("duration_ms", duration.Milliseconds()))

	var envelope actionResponse
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode == http.StatusNotFound ||
		(decodeErr == nil && envelope.Error != nil && envelope.Error.Type == notFoundType) {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Catalog returned non-success status",
			log.String("action", action),
			log.Int("status_code", resp.StatusCode))
		if decodeErr == nil && envelope.Error != nil {
			return fmt.Errorf("catalog %s returned status %d: %s", action, resp.StatusCode, envelope.Error.Message)
		}
		return fmt.Errorf("catalog %s returned status %d", action, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, decodeErr)
	}
	if !envelope.Success {
		if envelope.Error != nil {
			return fmt.Errorf("catalog %s failed: %s", action, envelope.Error.Message)
		}
		return fmt.Errorf("catalog %s failed", action)
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", action, err)
	}
	return nil
}
