package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Login establishes a server-side session. On success the service sets the
// sid cookie into the client's jar; subsequent Me calls ride on it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("marshal login request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Me returns the current session identity. It takes no arguments and relies
// entirely on the ambient session cookie; without a live session it fails
// with a 401-tagged *APIError.
func (c *Client) Me(ctx context.Context) (MeResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/auth/me", nil)
	if err != nil {
		return MeResponse{}, err
	}

	var me MeResponse
	if err := decodeJSON(resp, &me, http.StatusOK); err != nil {
		return MeResponse{}, err
	}
	return me, nil
}

// Logout revokes the server-side session behind the cookie. The local
// session store's Logout is independent of this call.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// NavItem is one entry of the role-filtered navigation/command registry
// served by GET /v1/nav.
type NavItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
	Type  string `json:"type"`
}

// Nav returns the navigation and command entries visible to the current
// session's role, optionally filtered by a fuzzy query.
func (c *Client) Nav(ctx context.Context, query string) ([]NavItem, error) {
	path := "/v1/nav"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Items []NavItem `json:"items"`
	}
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Items, nil
}
