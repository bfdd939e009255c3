// Package sonar is the client for the SonarQube web API: project lookup,
// creation, and the best-effort metadata updates the registrar performs.
package sonar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Client talks to a SonarQube server. Workers each construct their own
// client so the underlying connection pool is never shared across jobs.
type Client struct {
	host  string
	token string
	http  *http.Client
	l     *zap.Logger
}

// NewClient creates a client for the given server. The token authenticates
// as basic-auth username with an empty password, which is how SonarQube
// consumes user tokens.
func NewClient(host, token string, l *zap.Logger) *Client {
	return &Client{
		host:  strings.TrimSuffix(host, "/"),
		token: token,
		l:     l,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// searchResponse is the subset of /api/projects/search we read
type searchResponse struct {
	Paging struct {
		Total int `json:"total"`
	} `json:"paging"`
}

// ProjectExists reports whether a project with the given key is registered.
// Lookups are idempotent, so transient failures are retried a bounded number
// of times before giving up.
func (c *Client) ProjectExists(ctx context.Context, key string) (bool, error) {
	var exists bool

	op := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/api/projects/search?"+url.Values{"projects": {key}}.Encode(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("project search returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(apiError("project search", resp))
		}

		var sr searchResponse
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode search response: %w", err))
		}
		exists = sr.Paging.Total > 0
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx))
	if err != nil {
		return false, fmt.Errorf("project existence check for %q: %w", key, err)
	}
	return exists, nil
}

// CreateProject registers a new project. The server rejects duplicate keys,
// so callers check existence first; creation itself is never retried.
func (c *Client) CreateProject(ctx context.Context, key, name string) error {
	form := url.Values{
		"project": {key},
		"name":    {name},
	}
	if err := c.postForm(ctx, "/api/projects/create", form); err != nil {
		return fmt.Errorf("project creation for %q: %w", key, err)
	}
	return nil
}

// RenameMainBranch renames the project's main branch.
func (c *Client) RenameMainBranch(ctx context.Context, key, branch string) error {
	form := url.Values{
		"project": {key},
		"name":    {branch},
	}
	if err := c.postForm(ctx, "/api/project_branches/rename", form); err != nil {
		return fmt.Errorf("branch rename for %q: %w", key, err)
	}
	return nil
}

// UpdateProject updates a project's display name and description.
func (c *Client) UpdateProject(ctx context.Context, key, name, description string) error {
	form := url.Values{
		"project":     {key},
		"name":        {name},
		"description": {description},
	}
	if err := c.postForm(ctx, "/api/projects/update", form); err != nil {
		return fmt.Errorf("project update for %q: %w", key, err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(path, resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.host+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.token, "")
	return req, nil
}

func apiError(what string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s returned status %d", what, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d: %s", what, resp.StatusCode, msg)
}
