// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/userdeck/userdeck/internal/dao"
)

// Client errors.
const (
	// ErrServer flags a non 2xx response.
	ErrServer = dao.Error("server rejected request")
	// ErrTransport flags a request that never got a response.
	ErrTransport = dao.Error("transport failure")
	// ErrDecode flags a response body that is not the expected JSON.
	ErrDecode = dao.Error("malformed response")
	// ErrInvalidURL flags an endpoint url that cannot be used.
	ErrInvalidURL = dao.Error("invalid api url")
)

const (
	// DefaultURL is the users collection of the mock API.
	DefaultURL = "https://671891927fc4c5ff8f49fcac.mockapi.io/v2/users"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second

	// TotalCountHeader carries the collection size on list responses.
	TotalCountHeader = "X-Total-Count"

	// RequestIDHeader tags each outgoing request.
	RequestIDHeader = "X-Request-ID"

	// countLimit is large enough to fetch the whole collection in one page.
	countLimit = 99999

	// maxAvatarLen is the longest avatar accepted verbatim on create.
	maxAvatarLen = 3000

	maxErrBody = 512
)

// HTTPError is returned for non 2xx responses.
type HTTPError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Status, http.StatusText(e.Status), e.Body)
}

// Is lets errors.Is match ErrServer and dao.ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrServer:
		return true
	case dao.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Page is one page of users plus the collection size when the server
// reported it.
type Page struct {
	Users    []dao.User
	Total    int
	HasTotal bool
}

// Service is the remote record API consumed by the store.
type Service interface {
	List(ctx context.Context, q dao.Query) (Page, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, u dao.User) (dao.User, error)
	Update(ctx context.Context, id string, u dao.User) (dao.User, error)
	Delete(ctx context.Context, id string) error
}

// ClientConfig configures a Client.
type ClientConfig struct {
	URL     string
	Timeout time.Duration
}

// Client talks to the users REST endpoint.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
	mx   sync.RWMutex
}

var _ Service = (*Client)(nil)

// NewClient returns a client for cfg.
func NewClient(cfg *ClientConfig, log zerolog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	raw := cfg.URL
	if raw == "" {
		raw = DefaultURL
	}
	base, err := parseBase(raw)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "api").Logger(),
	}, nil
}

// URL returns the collection url.
func (c *Client) URL() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.base.String()
}

// SwitchURL points the client at another collection.
func (c *Client) SwitchURL(raw string) error {
	base, err := parseBase(raw)
	if err != nil {
		return err
	}
	c.mx.Lock()
	c.base = base
	c.mx.Unlock()

	return nil
}

// List fetches one page of users.
func (c *Client) List(ctx context.Context, q dao.Query) (Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.SortBy != "" {
		params.Set("sortBy", string(q.SortBy))
	}
	if q.Order != "" {
		params.Set("order", string(q.Order))
	}

	var (
		page Page
		uu   []dao.User
	)
	resp, err := c.do(ctx, http.MethodGet, "", params, nil, &uu)
	if err != nil {
		return page, err
	}
	page.Users = uu
	if h := resp.Header.Get(TotalCountHeader); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n >= 0 {
			page.Total, page.HasTotal = n, true
		}
	}

	return page, nil
}

// Count returns the authoritative number of users.
func (c *Client) Count(ctx context.Context) (int, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(countLimit))

	var uu []json.RawMessage
	if _, err := c.do(ctx, http.MethodGet, "", params, nil, &uu); err != nil {
		return 0, err
	}

	return len(uu), nil
}

// Create submits a new user. The id is assigned by the server.
func (c *Client) Create(ctx context.Context, u dao.User) (dao.User, error) {
	u = PrepareCreate(u)

	var out dao.User
	if _, err := c.do(ctx, http.MethodPost, "", nil, u, &out); err != nil {
		return dao.User{}, err
	}

	return out, nil
}

// Update replaces the identified user.
func (c *Client) Update(ctx context.Context, id string, u dao.User) (dao.User, error) {
	if id == "" {
		return dao.User{}, fmt.Errorf("update: empty id: %w", dao.ErrInvalidArg)
	}
	u.ID = id

	var out dao.User
	if _, err := c.do(ctx, http.MethodPut, id, nil, u, &out); err != nil {
		return dao.User{}, err
	}

	return out, nil
}

// Delete removes the identified user.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete: empty id: %w", dao.ErrInvalidArg)
	}
	_, err := c.do(ctx, http.MethodDelete, id, nil, nil, nil)

	return err
}

// PrepareCreate strips the id and replaces oversized avatars with a
// generated one.
func PrepareCreate(u dao.User) dao.User {
	u.ID = ""
	if len(u.Avatar) > maxAvatarLen {
		u.Avatar = "https://ui-avatars.com/api/?name=" + url.QueryEscape(u.Name) + "&background=random"
	}
	return u
}

func (c *Client) do(ctx context.Context, method, id string, params url.Values, in, out any) (*http.Response, error) {
	target := c.endpoint(id, params)

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, target, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, target, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("url", target).Str("request_id", reqID).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w: %w", method, target, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return resp, &HTTPError{
			Method: method,
			URL:    target,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(raw)),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp, fmt.Errorf("decode %s %s: %w: %w", method, target, ErrDecode, err)
	}

	return resp, nil
}

func (c *Client) endpoint(id string, params url.Values) string {
	c.mx.RLock()
	u := *c.base
	c.mx.RUnlock()

	if id != "" {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(id)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	return u.String()
}

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w %q", ErrInvalidURL, raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""

	return u, nil
}
