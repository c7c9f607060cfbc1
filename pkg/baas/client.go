// Package baas is the single configured handle to the hosted backend: its
// auth service (/auth/v1) and its generated REST surface (/rest/v1).
package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNoServiceKey = errors.New("baas: service role key is not configured")
	ErrUnfiltered   = errors.New("baas: update and delete require at least one filter")
)

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	useService bool
	http       *resty.Client
}

type Option func(*Client)

// WithServiceKey enables the privileged key. It must only ever be set in
// server processes and operator scripts.
func WithServiceKey(key string) Option {
	return func(c *Client) {
		c.serviceKey = key
	}
}

// WithHTTPClient sends every call through h, keeping the base URL and
// default headers.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = newTransport(resty.NewWithClient(h), c.baseURL)
	}
}

func newTransport(r *resty.Client, baseURL string) *resty.Client {
	return r.SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetDisableWarn(true)
}

func New(projectURL, anonKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(projectURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("baas: invalid project URL %q", projectURL)
	}
	if anonKey == "" {
		return nil, errors.New("baas: anon key is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		anonKey: anonKey,
	}
	c.http = newTransport(resty.New().SetTimeout(15*time.Second), c.baseURL)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) HasServiceKey() bool {
	return c.serviceKey != ""
}

// AsService returns a copy of the client that authenticates with the service key.
func (c *Client) AsService() (*Client, error) {
	if !c.HasServiceKey() {
		return nil, ErrNoServiceKey
	}
	cp := *c
	cp.useService = true
	return &cp, nil
}

func (c *Client) apiKey() string {
	if c.useService {
		return c.serviceKey
	}
	return c.anonKey
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
	header map[string]string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	bearer := r.bearer
	if bearer == "" {
		bearer = c.apiKey()
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey()).
		SetHeader("Authorization", "Bearer "+bearer).
		SetHeaders(r.header)
	if len(r.query) > 0 {
		req.SetQueryParamsFromValues(r.query)
	}
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("baas: encode request: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}

	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		return fmt.Errorf("baas: %s %s: %w", r.method, r.path, err)
	}

	raw := resp.Body()
	if resp.IsError() {
		return decodeError(resp.StatusCode(), raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("baas: decode response: %w", err)
	}
	return nil
}
