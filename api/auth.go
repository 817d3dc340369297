package api

import (
	"context"
	"net/http"

	"escrowdesk/session"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration request body. Names are optional.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserSummary is the created-user response from registration.
type UserSummary struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Profile is the authenticated user's profile.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsBroker  bool   `json:"is_broker"`
}

// Login exchanges credentials for a token pair and stores it in the session.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	var tokens session.Tokens
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login/", creds, &tokens); err != nil {
		return err
	}
	if err := c.session.Set(tokens); err != nil {
		return err
	}
	c.cache.Delete(profileCacheKey)
	return nil
}

// Register creates a new account. It does not log in; callers follow up with
// Login using the same credentials.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (UserSummary, error) {
	var created UserSummary
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register/", req, &created); err != nil {
		return UserSummary{}, err
	}
	return created, nil
}

// Logout clears the local session. There is no server-side call; tokens are
// simply discarded.
func (c *Client) Logout() error {
	c.cache.Delete(profileCacheKey)
	return c.session.Clear()
}

// FetchProfile returns the authenticated user's profile. Responses are cached
// briefly; the cache is dropped on login, logout and 401.
func (c *Client) FetchProfile(ctx context.Context) (Profile, error) {
	if cached, ok := c.cache.Get(profileCacheKey); ok {
		if profile, ok := cached.(Profile); ok {
			return profile, nil
		}
	}

	var profile Profile
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile/", nil, &profile); err != nil {
		return Profile{}, err
	}
	c.cache.SetDefault(profileCacheKey, profile)
	return profile, nil
}
