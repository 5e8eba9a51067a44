// Package http implements the identity provider port against the
// platform's REST admin API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"staticshop-backend/internal/features/identity/models"
	"staticshop-backend/internal/features/identity/provider"
)

// APIError carries a non-2xx provider response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity api: status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient builds a provider client authenticated with a service token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		token:      token,
	}
}

var _ provider.Provider = (*Client)(nil)

func (c *Client) GetUser(ctx context.Context, id string) (*models.IdentityRecord, error) {
	var record models.IdentityRecord
	if err := c.do(ctx, http.MethodGet, "/v1/accounts/"+id, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) ListUsers(ctx context.Context, pageSize int) ([]models.IdentityRecord, error) {
	var page struct {
		Users []models.IdentityRecord `json:"users"`
	}
	path := "/v1/accounts?pageSize=" + strconv.Itoa(pageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Users, nil
}

func (c *Client) SetDisabled(ctx context.Context, id string, disabled bool) error {
	body := map[string]bool{"disabled": disabled}
	return c.do(ctx, http.MethodPatch, "/v1/accounts/"+id, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return provider.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
