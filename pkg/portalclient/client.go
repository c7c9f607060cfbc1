// Package portalclient talks to the portal's admin API on behalf of an
// operator. The session is kept in a token file so successive CLI runs stay
// signed in.
package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	authDto "quezon.gov.ph/portal/internal/modules/auth/dto"
)

var ErrNotSignedIn = errors.New("portalclient: not signed in")

// APIError is a non-2xx answer from the portal.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal: %d: %s", e.Status, e.Message)
}

// Session is what the token file holds.
type Session struct {
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	ExpiresAt      time.Time `json:"expires_at"`
	Email          string    `json:"email"`
	Roles          []string  `json:"roles"`
	CanAccessAdmin bool      `json:"can_access_admin"`
}

type Client struct {
	baseURL    string
	tokenPath  string
	http       *resty.Client

	mu      sync.Mutex
	session *Session
}

type Option func(*Client)

// WithTokenFile persists the session at path. Without it the session lives
// in memory only.
func WithTokenFile(path string) Option {
	return func(c *Client) {
		c.tokenPath = path
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(h).SetBaseURL(c.baseURL)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("portalclient: invalid base URL %q", baseURL)
	}
	c := &Client{baseURL: strings.TrimRight(u.String(), "/")}
	c.http = resty.New().SetBaseURL(c.baseURL).SetTimeout(20 * time.Second)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultTokenPath is ~/.config/portalctl/session.json.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "portalctl", "session.json")
}

func (c *Client) Session() (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, false
	}
	s := *c.session
	return &s, true
}

// Load reads the token file, if one is configured and present.
func (c *Client) Load() error {
	if c.tokenPath == "" {
		return nil
	}
	raw, err := os.ReadFile(c.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("portalclient: read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("portalclient: decode session: %w", err)
	}
	c.mu.Lock()
	c.session = &s
	c.mu.Unlock()
	return nil
}

func (c *Client) store(s *Session) error {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	if c.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o700); err != nil {
		return fmt.Errorf("portalclient: create session dir: %w", err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.tokenPath, raw, 0o600); err != nil {
		return fmt.Errorf("portalclient: write session: %w", err)
	}
	return nil
}

// Clear forgets the session in memory and on disk.
func (c *Client) Clear() error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	if c.tokenPath == "" {
		return nil
	}
	if err := os.Remove(c.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("portalclient: remove session: %w", err)
	}
	return nil
}

func fromAuth(res authDto.AuthResponse) *Session {
	roles := make([]string, 0, len(res.Roles))
	for _, r := range res.Roles {
		roles = append(roles, string(r))
	}
	return &Session{
		AccessToken:    res.AccessToken,
		RefreshToken:   res.RefreshToken,
		ExpiresAt:      res.ExpiresAt,
		Email:          res.User.Email,
		Roles:          roles,
		CanAccessAdmin: res.CanAccessAdmin,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var res authDto.AuthResponse
	err := c.send(ctx, http.MethodPost, "/api/auth/login", "", authDto.LoginInput{Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	s := fromAuth(res)
	if err := c.store(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh trades the stored refresh token for a new session.
func (c *Client) Refresh(ctx context.Context) error {
	cur, ok := c.Session()
	if !ok || cur.RefreshToken == "" {
		return ErrNotSignedIn
	}
	var res authDto.AuthResponse
	if err := c.send(ctx, http.MethodPost, "/api/auth/refresh", "", authDto.RefreshInput{RefreshToken: cur.RefreshToken}, &res); err != nil {
		return err
	}
	return c.store(fromAuth(res))
}

// Logout ends the session upstream; the local copy is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	cur, ok := c.Session()
	if ok {
		_ = c.send(ctx, http.MethodPost, "/api/auth/logout", cur.AccessToken, nil, nil)
	}
	return c.Clear()
}

// Do performs an authenticated call. A 401 triggers one refresh and retry.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	cur, ok := c.Session()
	if !ok {
		return ErrNotSignedIn
	}
	err := c.send(ctx, method, path, cur.AccessToken, body, out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || cur.RefreshToken == "" {
		return err
	}
	if rerr := c.Refresh(ctx); rerr != nil {
		return err
	}
	cur, _ = c.Session()
	return c.send(ctx, method, path, cur.AccessToken, body, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("portalclient: encode request: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("portalclient: %s %s: %w", method, path, err)
	}

	raw := resp.Body()
	if resp.IsError() {
		return &APIError{Status: resp.StatusCode(), Message: errorMessage(resp.StatusCode(), raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("portalclient: decode response: %w", err)
	}
	return nil
}

// errorMessage reads the portal's {"error": ...} body, where error is a
// string or a map of field messages.
func errorMessage(status int, raw []byte) string {
	var e struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(raw, &e) != nil {
		return msg
	}
	switch v := e.Error.(type) {
	case string:
		msg = v
	case nil:
		if e.Message != "" {
			msg = e.Message
		}
	default:
		b, _ := json.Marshal(v)
		msg = string(b)
	}
	return msg
}
