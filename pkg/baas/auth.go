package baas

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &s)
	if err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, errors.New("baas: sign-in returned no session")
	}
	return &s, nil
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var s Session
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetUser resolves the user behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", bearer: accessToken}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", bearer: accessToken}, nil)
}

// ResetPasswordForEmail asks the auth service to mail a recovery link.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	q := url.Values{}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/recover",
		query:  q,
		body:   map[string]string{"email": email},
	}, nil)
}

// AdminListUsers lists identities; it needs the service key.
func (c *Client) AdminListUsers(ctx context.Context, page, perPage int) ([]User, error) {
	svc, err := c.AsService()
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	var resp struct {
		Users []User `json:"users"`
	}
	err = svc.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/admin/users",
		query:  url.Values{"page": {strconv.Itoa(page)}, "per_page": {strconv.Itoa(perPage)}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"}, nil)
}
