// Package client is a typed Go client for the toggler HTTP API. The UI pages
// and the togglectl commands talk to the server through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doodlesbykumbi/toggler/pkg/model"
)

// Client is the toggler API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// New creates a client for the API rooted at baseURL, for example
// "http://localhost:3000" or "http://localhost:3000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("toggler api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func statusIs(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsValidation reports whether err is a 400 from the API.
func IsValidation(err error) bool { return statusIs(err, http.StatusBadRequest) }

// FeatureInput is the writable part of a feature. A nil Description or
// Enabled leaves the stored value alone on update.
type FeatureInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Owner       string  `json:"owner"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Owner       string  `json:"owner"`
	Description *string `json:"description,omitempty"`
}

type EnvironmentInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type GroupInput struct {
	Name        string  `json:"name"`
	Owner       string  `json:"owner"`
	Description *string `json:"description,omitempty"`
}

// ToggleFilter narrows ListToggles; empty fields match everything.
type ToggleFilter struct {
	FeatureID     string
	GroupID       string
	ProductID     string
	EnvironmentID string
}

func (f ToggleFilter) query() url.Values {
	q := url.Values{}
	for name, value := range map[string]string{
		"featureId":     f.FeatureID,
		"groupId":       f.GroupID,
		"productId":     f.ProductID,
		"environmentId": f.EnvironmentID,
	} {
		if value != "" {
			q.Set(name, value)
		}
	}
	return q
}

func keyQuery(key model.ToggleKey) url.Values {
	return url.Values{
		"featureId":     {key.FeatureID},
		"groupId":       {key.GroupID},
		"productId":     {key.ProductID},
		"environmentId": {key.EnvironmentID},
	}
}

func idQuery(id string) url.Values {
	return url.Values{"id": {id}}
}

// withID flattens id into the JSON object of in.
func withID(id string, in interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	body := map[string]interface{}{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	body["id"] = id
	return body, nil
}

// Features

func (c *Client) ListFeatures(ctx context.Context) ([]model.Feature, error) {
	var features []model.Feature
	err := c.doRequest(ctx, http.MethodGet, "/features", nil, nil, &features)
	return features, err
}

func (c *Client) CreateFeature(ctx context.Context, in FeatureInput) (*model.Feature, error) {
	var feature model.Feature
	if err := c.doRequest(ctx, http.MethodPost, "/features", nil, in, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (c *Client) UpdateFeature(ctx context.Context, id string, in FeatureInput) (*model.Feature, error) {
	body, err := withID(id, in)
	if err != nil {
		return nil, err
	}
	var feature model.Feature
	if err := c.doRequest(ctx, http.MethodPut, "/features", nil, body, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (c *Client) DeleteFeature(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/features", idQuery(id), nil, nil)
}

// Products

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := c.doRequest(ctx, http.MethodGet, "/products", nil, nil, &products)
	return products, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	var product model.Product
	if err := c.doRequest(ctx, http.MethodPost, "/products", nil, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	body, err := withID(id, in)
	if err != nil {
		return nil, err
	}
	var product model.Product
	if err := c.doRequest(ctx, http.MethodPut, "/products", nil, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/products", idQuery(id), nil, nil)
}

// Environments

func (c *Client) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	var environments []model.Environment
	err := c.doRequest(ctx, http.MethodGet, "/environments", nil, nil, &environments)
	return environments, err
}

func (c *Client) CreateEnvironment(ctx context.Context, in EnvironmentInput) (*model.Environment, error) {
	var environment model.Environment
	if err := c.doRequest(ctx, http.MethodPost, "/environments", nil, in, &environment); err != nil {
		return nil, err
	}
	return &environment, nil
}

func (c *Client) UpdateEnvironment(ctx context.Context, id string, in EnvironmentInput) (*model.Environment, error) {
	body, err := withID(id, in)
	if err != nil {
		return nil, err
	}
	var environment model.Environment
	if err := c.doRequest(ctx, http.MethodPut, "/environments", nil, body, &environment); err != nil {
		return nil, err
	}
	return &environment, nil
}

func (c *Client) DeleteEnvironment(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/environments", idQuery(id), nil, nil)
}

// Groups

func (c *Client) ListGroups(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := c.doRequest(ctx, http.MethodGet, "/groups", nil, nil, &groups)
	return groups, err
}

func (c *Client) CreateGroup(ctx context.Context, in GroupInput) (*model.Group, error) {
	var group model.Group
	if err := c.doRequest(ctx, http.MethodPost, "/groups", nil, in, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id string, in GroupInput) (*model.Group, error) {
	body, err := withID(id, in)
	if err != nil {
		return nil, err
	}
	var group model.Group
	if err := c.doRequest(ctx, http.MethodPut, "/groups", nil, body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/groups", idQuery(id), nil, nil)
}

// Toggles

func (c *Client) ListToggles(ctx context.Context, filter ToggleFilter) ([]model.Toggle, error) {
	var toggles []model.Toggle
	err := c.doRequest(ctx, http.MethodGet, "/toggles", filter.query(), nil, &toggles)
	return toggles, err
}

func (c *Client) CreateToggle(ctx context.Context, key model.ToggleKey) (*model.Toggle, error) {
	var toggle model.Toggle
	if err := c.doRequest(ctx, http.MethodPost, "/toggles", nil, key, &toggle); err != nil {
		return nil, err
	}
	return &toggle, nil
}

// ReplaceToggle moves the toggle at oldKey to newKey.
func (c *Client) ReplaceToggle(ctx context.Context, oldKey, newKey model.ToggleKey) (*model.Toggle, error) {
	body := map[string]model.ToggleKey{"oldData": oldKey, "newData": newKey}
	var toggle model.Toggle
	if err := c.doRequest(ctx, http.MethodPut, "/toggles", nil, body, &toggle); err != nil {
		return nil, err
	}
	return &toggle, nil
}

func (c *Client) DeleteToggle(ctx context.Context, key model.ToggleKey) error {
	return c.doRequest(ctx, http.MethodDelete, "/toggles", keyQuery(key), nil, nil)
}

// Status returns the server's readiness status, "ok" when the database is
// reachable.
func (c *Client) Status(ctx context.Context) (string, error) {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/status", nil, nil, &status); err != nil {
		return "", err
	}
	return status.Status, nil
}

// doRequest performs an HTTP request and decodes the response.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
