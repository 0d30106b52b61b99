// Package piston is a client for Piston-compatible code execution APIs.
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"
	"github.com/programme-lv/smoke/api"
	"github.com/puzpuzpuz/xsync/v3"
)

const DefaultBaseUrl = "https://emkc.org/api/v2/piston"

const maxBodyBytes = 4 << 20

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseUrl string
	http    Doer

	// language or alias -> version, filled from the runtimes listing
	versions *xsync.MapOf[string, string]
}

type Option func(*Client)

// WithDoer replaces the HTTP transport, mostly for tests.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.http = d }
}

func New(baseUrl string, opts ...Option) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	c := &Client{
		baseUrl:  strings.TrimRight(baseUrl, "/"),
		http:     &http.Client{Transport: gzhttp.Transport(http.DefaultTransport)},
		versions: xsync.NewMapOf[string, string](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseUrl() string {
	return c.baseUrl
}

// Runtimes lists the runtimes installed on the server and refreshes the version cache.
func (c *Client) Runtimes(ctx context.Context) ([]api.Runtime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build runtimes request: %w", err)
	}

	var res []api.Runtime
	if err := c.do(req, &res); err != nil {
		return nil, err
	}

	// later entries win, so the last listed version of a language is used
	for _, rt := range res {
		c.versions.Store(rt.Language, rt.Version)
		for _, alias := range rt.Aliases {
			c.versions.Store(alias, rt.Version)
		}
	}
	return res, nil
}

// ResolveVersion returns the installed version of language, listing runtimes on a cache miss.
func (c *Client) ResolveVersion(ctx context.Context, language string) (string, error) {
	if v, ok := c.versions.Load(language); ok {
		return v, nil
	}
	if _, err := c.Runtimes(ctx); err != nil {
		return "", fmt.Errorf("failed to resolve version of %s: %w", language, err)
	}
	if v, ok := c.versions.Load(language); ok {
		return v, nil
	}
	return "", fmt.Errorf("language %q: %w", language, ErrNotInstalled)
}

// Execute submits code for execution. A non-200 answer is returned as *StatusError.
func (c *Client) Execute(ctx context.Context, execReq api.ExecReq) (*api.ExecResp, error) {
	if execReq.Version == "" {
		v, err := c.ResolveVersion(ctx, execReq.Language)
		if err != nil {
			return nil, err
		}
		execReq.Version = v
	}

	body, err := json.Marshal(execReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var res api.ExecResp
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(req *http.Request, into any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", req.URL.Path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, into); err != nil {
		return &DecodeError{Path: req.URL.Path, Err: err}
	}
	return nil
}
