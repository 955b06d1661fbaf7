package linksdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a linkbot service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AdminToken is sent with operator requests. Leave empty for the
	// registration and lookup endpoints.
	AdminToken string
}

type Option func(*Client)

func WithAdminToken(token string) Option {
	return func(c *Client) { c.AdminToken = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// NewClient creates a client with a 10 second request timeout.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness reports a not-ready service as an *APIError with status 503.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register redeems startToken for externalID.
func (c *Client) Register(ctx context.Context, startToken string, externalID int64) (*RegisterResponse, error) {
	resp, err := c.doForm(ctx, "/v1/register", url.Values{
		"start_token": {startToken},
		"external_id": {strconv.FormatInt(externalID, 10)},
	})
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookup resolves externalID against the directory.
func (c *Client) Lookup(ctx context.Context, externalID int64) (*LookupResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/directory/"+strconv.FormatInt(externalID, 10), nil, nil)
	if err != nil {
		return nil, err
	}

	var out LookupResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, name, role string) (*Entry, error) {
	resp, err := c.doAdmin(ctx, http.MethodPost, "/v1/admin/users", CreateUserRequest{Name: name, Role: role})
	if err != nil {
		return nil, err
	}

	var out Entry
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, name string) (*Entry, error) {
	resp, err := c.doAdmin(ctx, http.MethodDelete, "/v1/admin/users/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}

	var out Entry
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]Entry, error) {
	return c.listEntries(ctx, "/v1/admin/users")
}

// ListRegistered returns the users currently linked to an identity.
func (c *Client) ListRegistered(ctx context.Context) ([]Entry, error) {
	return c.listEntries(ctx, "/v1/admin/registered")
}

func (c *Client) listEntries(ctx context.Context, path string) ([]Entry, error) {
	resp, err := c.doAdmin(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) ListLinks(ctx context.Context) ([]Link, error) {
	resp, err := c.doAdmin(ctx, http.MethodGet, "/v1/admin/links", nil)
	if err != nil {
		return nil, err
	}

	var out LinksResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Links, nil
}

// RefreshDirectory asks the service to rebuild its directory and returns
// the resulting number of linked identities.
func (c *Client) RefreshDirectory(ctx context.Context) (int, error) {
	resp, err := c.doAdmin(ctx, http.MethodPost, "/v1/admin/directory/refresh", nil)
	if err != nil {
		return 0, err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.Entries, nil
}
