// Package authn verifies bearer tokens against the Supabase-compatible auth
// service. Token issuance, signup and refresh all live with that
// collaborator; this client only ever asks "who is this token?".
package authn

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hashbridge/internal/errs"
)

// AuthUser is the identity resolved from a bearer token, in the auth
// service's own user shape.
type AuthUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

type UserMetadata struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName is the fallback chain used wherever a comment or session needs
// a human-readable author: metadata name, then the email local-part, then
// "Anonymous".
func (u *AuthUser) DisplayName() string {
	if u.UserMetadata.Name != "" {
		return u.UserMetadata.Name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return "Anonymous"
}

// Verifier resolves bearer tokens to identities.
type Verifier interface {
	VerifyToken(token string) (*AuthUser, error)
}

// Client talks to a GoTrue-style endpoint: GET {base}/auth/v1/user with the
// project apikey plus the caller's bearer token.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether the client can make verification calls at all.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// VerifyToken resolves token to a user. Read-only: no session is created or
// refreshed on the auth service.
func (c *Client) VerifyToken(token string) (*AuthUser, error) {
	if !c.Configured() {
		return nil, errs.Misconfigured("Server configuration error: Supabase not configured")
	}
	if token == "" {
		return nil, errs.Unauthenticated("Unauthorized: No authorization header")
	}

	req, err := http.NewRequest("GET", c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errs.Unauthenticated("Unauthorized: Invalid or expired token")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("auth service returned %d: %s", resp.StatusCode, string(body))
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if user.ID == "" {
		return nil, errs.Unauthenticated("Unauthorized: Invalid or expired token")
	}
	return &user, nil
}
