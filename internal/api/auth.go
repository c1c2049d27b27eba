package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/chemviz/chemviz-tui/internal/model"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the registration payload. The server keys the
// display name as username.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login obtains a session token and stores it as a side effect.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, error) {
	var resp tokenResponse
	payload := loginRequest{Username: identifier, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token/", payload, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("token not returned by server")
	}
	if err := c.session.SetToken(ctx, resp.Token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return resp.Token, nil
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register/", req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("token not returned by server")
	}
	if err := c.session.SetToken(ctx, resp.Token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return resp.Token, nil
}

// Logout notifies the server best-effort, then clears the local token
// unconditionally. A failed network call does not keep the session alive.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout/", nil, nil); err != nil {
		c.log.Warn("logout notification failed", zap.Error(err))
	}
	if err := c.session.ClearToken(ctx); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Profile fetches the current account.
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var profile model.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me/", nil, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// UpdateProfile changes the account's username and email.
func (c *Client) UpdateProfile(ctx context.Context, username, email string) (model.Profile, error) {
	var profile model.Profile
	payload := profileUpdateRequest{Username: username, Email: email}
	if err := c.doJSON(ctx, http.MethodPut, "/api/auth/me/", payload, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}
