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
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
)

const (
	ContentType      = "application/json"
	UserAgentProduct = "chainvue-cli"
	DefaultVersion   = "dev"

	msgNotLoggedIn   = "Not logged in. Run: chainvue login"
	msgNoCredentials = "No credentials found. Run: chainvue login"

	maxResponseBytes = 10 << 20
)

var (
	errPathTraversal    = errors.New("path contains traversal sequence")
	errPathInvalidChars = errors.New("path contains invalid characters")
)

// validatePath checks that an API path does not contain traversal sequences
// or control characters.
func validatePath(path string) error {
	if strings.Contains(path, "..") {
		return errPathTraversal
	}

	for _, r := range path {
		if r < ' ' || r == 0x7f {
			return errPathInvalidChars
		}
	}

	return nil
}

// Sessions resolves the active profile. *config.Store satisfies it.
type Sessions interface {
	Active(override string) (string, *config.Profile, error)
}

// Client talks to the ChainVue REST and GraphQL endpoints on behalf of the
// active profile.
type Client struct {
	baseURL    string
	graphqlURL string
	profile    string
	version    string
	httpClient *http.Client
	sessions   Sessions
	creds      auth.Store
	logger     *zap.Logger
	notice     *updateNotice
}

type Option func(*Client)

func WithGraphQLURL(u string) Option {
	return func(c *Client) {
		if strings.TrimSpace(u) != "" {
			c.graphqlURL = strings.TrimRight(u, "/")
		}
	}
}

// WithProfile pins the profile used for authentication instead of the
// current-profile pointer.
func WithProfile(name string) Option {
	return func(c *Client) { c.profile = name }
}

func WithSessions(s Sessions) Option {
	return func(c *Client) { c.sessions = s }
}

func WithCredentials(s auth.Store) Option {
	return func(c *Client) { c.creds = s }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithVersion(v string) Option {
	return func(c *Client) {
		if strings.TrimSpace(v) != "" {
			c.version = strings.TrimSpace(v)
		}
	}
}

// WithNoticeWriter sets where the update notice is printed. Defaults to stderr.
func WithNoticeWriter(w io.Writer) Option {
	return func(c *Client) { c.notice.out = w }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		graphqlURL: config.DefaultGraphQLEndpoint,
		version:    DefaultVersion,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		notice:     &updateNotice{out: os.Stderr},
	}

	if c.baseURL == "" {
		c.baseURL = config.DefaultAPIEndpoint
	}

	for _, opt := range opts {
		opt(c)
	}

	c.notice.current = c.version

	wrapped := *c.httpClient
	wrapped.Transport = NewTransport(c.httpClient.Transport, c.logger, c.UserAgent())
	c.httpClient = &wrapped

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) GraphQLURL() string {
	return c.graphqlURL
}

func (c *Client) UserAgent() string {
	return UserAgentProduct + "/" + c.version
}

type requestOptions struct {
	anonymous     bool
	authorization string
}

type RequestOption func(*requestOptions)

// Anonymous sends the request without credentials.
func Anonymous() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// WithBearer authenticates the request with token instead of the stored
// credentials of the active profile.
func WithBearer(token string) RequestOption {
	return func(o *requestOptions) { o.authorization = "Bearer " + token }
}

func allowedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Do performs a REST call against the base URL and decodes the body into T.
// It never returns an error; every outcome is reported through the Result.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) Result[T] {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	if !allowedMethod(method) {
		return failure[T](0, fmt.Sprintf("unsupported method %q", method))
	}

	if err := validatePath(path); err != nil {
		return failure[T](0, fmt.Sprintf("unsafe API path %q: %v", path, err))
	}

	authz := ro.authorization
	if authz == "" && !ro.anonymous {
		value, msg := c.authorization()
		if msg != "" {
			return unauthenticated[T](msg)
		}

		authz = value
	}

	return send[T](ctx, c, method, c.baseURL+path, body, authz)
}

// Request is Do with an untyped JSON result.
func (c *Client) Request(ctx context.Context, method, path string, body any, opts ...RequestOption) Result[json.RawMessage] {
	return Do[json.RawMessage](ctx, c, method, path, body, opts...)
}

// authorization returns the Authorization header value for the active
// profile, or a user-facing message when there is none.
func (c *Client) authorization() (string, string) {
	if c.sessions == nil {
		return "", msgNotLoggedIn
	}

	name, profile, err := c.sessions.Active(c.profile)
	if err != nil {
		c.logger.Debug("resolve profile", zap.Error(err))

		return "", msgNotLoggedIn
	}

	if profile == nil {
		return "", msgNotLoggedIn
	}

	if c.creds == nil {
		return "", msgNoCredentials
	}

	creds, err := c.creds.GetCredentials(name)
	if err != nil {
		c.logger.Debug("load credentials", zap.String("profile", name), zap.Error(err))

		return "", msgNoCredentials
	}

	ts, err := creds.TokenSource()
	if err != nil {
		return "", msgNoCredentials
	}

	tok, err := ts.Token()
	if err != nil {
		return "", msgNoCredentials
	}

	return tok.Type() + " " + tok.AccessToken, ""
}

func send[T any](ctx context.Context, c *Client, method, target string, body any, authz string) Result[T] {
	var bodyReader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return failure[T](0, fmt.Sprintf("marshal body: %v", err))
		}

		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return failure[T](0, fmt.Sprintf("create request: %v", err))
	}

	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", ContentType)

	if authz != "" {
		req.Header.Set("Authorization", authz)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure[T](0, transportMessage(err))
	}
	defer resp.Body.Close()

	c.notice.observe(resp.Header)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failure[T](0, fmt.Sprintf("read response: %v", err))
	}

	res := decodeResult[T](resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	if resp.StatusCode == http.StatusTooManyRequests {
		res.RetryAfter = retryAfterSeconds(resp.Header, time.Now())
	}

	return res
}

// transportMessage unwraps *url.Error so the message names the cause rather
// than repeating the method and URL.
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}

	return err.Error()
}
