// Package profile talks to the user-profile service, the external owner of
// canonical profile data. This service forwards profile fields to it on
// every create/update and treats any non-success status as failure.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quest-maker/auth-service/internal/domain"
	internal_errors "github.com/quest-maker/auth-service/internal/errors"
)

// Payload is the profile document forwarded downstream. Reference ids are
// already in their canonical hex-string form at this point.
type Payload struct {
	AuthID        string                `json:"auth_id,omitempty"`
	Email         string                `json:"email,omitempty"`
	FirstName     string                `json:"firstName,omitempty"`
	LastName      string                `json:"lastName,omitempty"`
	Roles         []map[string]any      `json:"roles,omitempty"`
	Organizations []domain.Organization `json:"organizations,omitempty"`
	UserType      string                `json:"userType,omitempty"`
}

// Client handles all communication with the user-profile service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// Create registers the canonical profile for a freshly created credential.
// The downstream service signals success with 201 only.
func (c *Client) Create(ctx context.Context, token string, p Payload) error {
	resp, err := c.do(ctx, http.MethodPost, token, p)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return internal_errors.Upstream(fmt.Sprintf("Failed to create a user in the user service (status %d)", resp.StatusCode))
	}
	return nil
}

// Update pushes changed profile fields downstream. Success is 200 only.
func (c *Client) Update(ctx context.Context, token string, p Payload) error {
	resp, err := c.do(ctx, http.MethodPut, token, p)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return internal_errors.Upstream(fmt.Sprintf("Failed to update a user in the user service (status %d)", resp.StatusCode))
	}
	return nil
}

// do is the single helper for requests to the user service. Every call is
// authenticated with a bearer token.
func (c *Client) do(ctx context.Context, method, token string, p Payload) (*http.Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/users/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create user service request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, internal_errors.Upstream("User service unavailable")
	}
	return resp, nil
}
