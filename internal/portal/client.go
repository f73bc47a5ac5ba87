package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/retry"
	"github.com/gisops/webtool/pkg/webtool"
)

// Client talks to the portal's sharing REST API. It caches the token from
// SignIn and regenerates it transparently when it nears expiry or the
// portal reports it expired.
//
// Thread-Safety: safe for concurrent use; token state is mutex-guarded.
type Client struct {
	portalURL  string
	httpClient *http.Client
	fs         filesystem.Provider
	logger     webtool.Logger
	exec       *retry.Executor

	mu       sync.Mutex
	username string
	password string
	token    string
	expires  time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (tests use httptest clients).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithRetryExecutor overrides the retry executor.
func WithRetryExecutor(exec *retry.Executor) Option {
	return func(c *Client) {
		c.exec = exec
	}
}

// NewClient creates a portal client for the given portal URL.
// Panics if fs or logger is nil.
func NewClient(portalURL string, fs filesystem.Provider, logger webtool.Logger, opts ...Option) *Client {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	c := &Client{
		portalURL:  strings.TrimRight(portalURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		fs:         fs,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = retry.NewExecutor(
			retry.NewPortalErrorClassifier(),
			retry.NewExponentialBackoff(webtool.DefaultRetryMaxAttempts,
				retry.WithInitialDelay(webtool.DefaultRetryInitialDelay),
				retry.WithMaxDelay(webtool.DefaultRetryMaxDelay),
			),
		).WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Portal call failed (attempt %d, retrying in %s): %v", attempt+1, delay, err)
		})
	}
	return c
}

// apiError is the portal's JSON error envelope.
type apiError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *apiError) toPortalError(statusCode int) *webtool.PortalError {
	return &webtool.PortalError{
		StatusCode: statusCode,
		Code:       e.Code,
		Message:    e.Message,
		Details:    e.Details,
	}
}

// SignIn authenticates against the portal and caches the resulting token.
func (c *Client) SignIn(ctx context.Context, username, password string) error {
	c.mu.Lock()
	c.username = username
	c.password = password
	c.token = ""
	c.expires = time.Time{}
	c.mu.Unlock()

	c.logger.Verbose("Signing into portal %s as %s", c.portalURL, username)
	return c.exec.Execute(ctx, func(ctx context.Context) error {
		_, err := c.currentToken(ctx)
		return err
	})
}

// currentToken returns the cached token, generating a fresh one when the
// cache is empty or within the refresh margin of expiry.
func (c *Client) currentToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	username, password := c.username, c.password
	token, expires := c.token, c.expires
	c.mu.Unlock()

	if username == "" {
		return "", fmt.Errorf("not signed in: %w", webtool.ErrAuthFailed)
	}
	if token != "" && time.Until(expires) > webtool.TokenRefreshMargin {
		return token, nil
	}

	form := url.Values{
		"username":   {username},
		"password":   {password},
		"client":     {"referer"},
		"referer":    {c.portalURL},
		"expiration": {strconv.Itoa(int(webtool.DefaultTokenLifetime.Minutes()))},
		"f":          {"json"},
	}

	var resp struct {
		Token   string    `json:"token"`
		Expires int64     `json:"expires"` // epoch milliseconds
		Error   *apiError `json:"error"`
	}
	if err := c.postForm(ctx, c.portalURL+"/sharing/rest/generateToken", form, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		portalErr := resp.Error.toPortalError(http.StatusOK)
		// The token endpoint reports bad credentials as code 400.
		if resp.Error.Code == http.StatusBadRequest {
			return "", fmt.Errorf("%s: %w", portalErr.Message, webtool.ErrAuthFailed)
		}
		return "", portalErr
	}
	if resp.Token == "" {
		return "", fmt.Errorf("portal returned an empty token: %w", webtool.ErrAuthFailed)
	}

	c.mu.Lock()
	c.token = resp.Token
	c.expires = time.UnixMilli(resp.Expires)
	c.mu.Unlock()

	return resp.Token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.expires = time.Time{}
	c.mu.Unlock()
}

// Upload publishes the staged service definition package as a hosted
// service: add the package as a portal item, publish it against the target
// server, and optionally share it with everyone.
func (c *Client) Upload(ctx context.Context, packagePath string, opts webtool.UploadOptions) (*webtool.UploadResult, error) {
	pkg, err := c.fs.ReadFile(packagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service definition package: %w", err)
	}

	result := &webtool.UploadResult{}

	c.logger.Verbose("Uploading %s (%d bytes)", packagePath, len(pkg))
	err = c.exec.Execute(ctx, func(ctx context.Context) error {
		itemID, err := c.addItem(ctx, filepath.Base(packagePath), pkg)
		if err != nil {
			return err
		}
		result.ItemID = itemID

		serviceURL, messages, err := c.publishItem(ctx, itemID, opts)
		if err != nil {
			return err
		}
		result.ServiceURL = serviceURL
		result.Messages = messages

		if opts.Public {
			return c.shareItem(ctx, itemID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", webtool.ErrUploadFailed, err)
	}
	return result, nil
}

// addItem uploads the package bytes to the signed-in user's content.
func (c *Client) addItem(ctx context.Context, filename string, pkg []byte) (string, error) {
	token, err := c.currentToken(ctx)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(pkg); err != nil {
		return "", err
	}
	fields := map[string]string{
		"itemType": "Service Definition",
		"token":    token,
		"f":        "json",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/sharing/rest/content/users/%s/addItem", c.portalURL, c.usernameLocked())

	var resp struct {
		ID      string    `json:"id"`
		Success bool      `json:"success"`
		Error   *apiError `json:"error"`
	}
	if err := c.post(ctx, endpoint, w.FormDataContentType(), &body, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", c.liftError(resp.Error)
	}
	if !resp.Success || resp.ID == "" {
		return "", &webtool.PortalError{StatusCode: http.StatusOK, Message: "addItem did not return an item id"}
	}
	return resp.ID, nil
}

// publishItem turns the uploaded item into a hosted service.
func (c *Client) publishItem(ctx context.Context, itemID string, opts webtool.UploadOptions) (string, []string, error) {
	token, err := c.currentToken(ctx)
	if err != nil {
		return "", nil, err
	}

	form := url.Values{
		"itemID":       {itemID},
		"filetype":     {"serviceDefinition"},
		"targetServer": {opts.ServerURL},
		"overwrite":    {strconv.FormatBool(opts.Override)},
		"token":        {token},
		"f":            {"json"},
	}

	endpoint := fmt.Sprintf("%s/sharing/rest/content/users/%s/publish", c.portalURL, c.usernameLocked())

	var resp struct {
		Services []struct {
			ServiceURL string    `json:"serviceurl"`
			Success    bool      `json:"success"`
			Error      *apiError `json:"error"`
		} `json:"services"`
		Messages []string  `json:"messages"`
		Error    *apiError `json:"error"`
	}
	if err := c.postForm(ctx, endpoint, form, &resp); err != nil {
		return "", nil, err
	}
	if resp.Error != nil {
		return "", nil, c.liftError(resp.Error)
	}
	if len(resp.Services) == 0 {
		return "", resp.Messages, &webtool.PortalError{StatusCode: http.StatusOK, Message: "publish returned no services"}
	}
	svc := resp.Services[0]
	if svc.Error != nil {
		return "", resp.Messages, c.liftError(svc.Error)
	}
	return svc.ServiceURL, resp.Messages, nil
}

// shareItem shares the published item with everyone.
func (c *Client) shareItem(ctx context.Context, itemID string) error {
	token, err := c.currentToken(ctx)
	if err != nil {
		return err
	}

	form := url.Values{
		"everyone": {"true"},
		"token":    {token},
		"f":        {"json"},
	}
	endpoint := fmt.Sprintf("%s/sharing/rest/content/users/%s/items/%s/share", c.portalURL, c.usernameLocked(), itemID)

	var resp struct {
		Error *apiError `json:"error"`
	}
	if err := c.postForm(ctx, endpoint, form, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return c.liftError(resp.Error)
	}
	return nil
}

// liftError converts an API error envelope, dropping the cached token when
// the portal reports it expired so the next attempt signs in again.
func (c *Client) liftError(apiErr *apiError) error {
	portalErr := apiErr.toPortalError(http.StatusOK)
	if apiErr.Code == 498 {
		c.invalidateToken()
	}
	return portalErr
}

func (c *Client) usernameLocked() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	return c.post(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), out)
}

func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &webtool.PortalError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(firstLine(string(raw))),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unexpected portal response: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Verify Client implements the Portal interface at compile time
var _ webtool.Portal = (*Client)(nil)
