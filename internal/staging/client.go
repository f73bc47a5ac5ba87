package staging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/pkg/webtool"
)

// Client talks to the server's packaging endpoints. CreateDraft runs the
// tool once and returns the resulting sharing draft; Stage compiles a
// draft into a service definition package. Both write their artifact to
// the given local path.
type Client struct {
	serverURL  string
	httpClient *http.Client
	fs         filesystem.Provider
	logger     webtool.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (tests use httptest clients).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// NewClient creates a packaging client for the given server URL.
// Panics if fs or logger is nil.
func NewClient(serverURL string, fs filesystem.Provider, logger webtool.Logger, opts ...Option) *Client {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		fs:         fs,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// draftRequest is the wire form of a draft creation call.
type draftRequest struct {
	ServiceName              string            `json:"serviceName"`
	TargetServer             string            `json:"targetServer"`
	ToolboxPath              string            `json:"toolboxPath"`
	ToolName                 string            `json:"toolName"`
	ToolInputs               map[string]string `json:"toolInputs,omitempty"`
	MaxRecords               int               `json:"maxRecords"`
	ExecutionType            string            `json:"executionType"`
	MessageLevel             string            `json:"messageLevel"`
	CopyDataToServer         bool              `json:"copyDataToServer"`
	ConstantValues           []string          `json:"constantValues,omitempty"`
	OverwriteExistingService bool              `json:"overwriteExistingService"`
}

// CreateDraft runs the tool and writes the resulting sharing draft XML to
// draftPath.
func (c *Client) CreateDraft(ctx context.Context, spec webtool.DraftSpec, draftPath string) error {
	payload, err := json.Marshal(draftRequest(spec))
	if err != nil {
		return err
	}

	c.logger.Verbose("Creating sharing draft for %s/%s", filepath.Base(spec.ToolboxPath), spec.ToolName)

	draft, err := c.post(ctx, c.serverURL+"/packaging/createDraft", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create sharing draft: %w", err)
	}
	if err := c.fs.WriteFile(draftPath, draft, 0o644); err != nil {
		return fmt.Errorf("failed to write sharing draft: %w", err)
	}

	c.logger.Verbose("Sharing draft written to %s (%d bytes)", draftPath, len(draft))
	return nil
}

// Stage compiles the draft at draftPath into a service definition package
// at packagePath.
func (c *Client) Stage(ctx context.Context, draftPath, packagePath string) error {
	draft, err := c.fs.ReadFile(draftPath)
	if err != nil {
		return fmt.Errorf("failed to read sharing draft: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("draft", filepath.Base(draftPath))
	if err != nil {
		return err
	}
	if _, err := part.Write(draft); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	c.logger.Verbose("Staging %s", draftPath)

	pkg, err := c.post(ctx, c.serverURL+"/packaging/stage", w.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("%w: %w", webtool.ErrStagingFailed, err)
	}
	if err := c.fs.WriteFile(packagePath, pkg, 0o644); err != nil {
		return fmt.Errorf("failed to write service definition package: %w", err)
	}

	c.logger.Verbose("Service definition package written to %s (%d bytes)", packagePath, len(pkg))
	return nil
}

func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(resp.StatusCode, raw)
	}
	return raw, nil
}

// newStatusError converts a non-200 packaging response, preferring the
// structured error envelope when the body carries one.
func newStatusError(statusCode int, body []byte) error {
	var envelope struct {
		Error *struct {
			Code    int      `json:"code"`
			Message string   `json:"message"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return &webtool.PortalError{
			StatusCode: statusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
			Details:    envelope.Error.Details,
		}
	}

	msg := strings.TrimSpace(string(body))
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	return &webtool.PortalError{StatusCode: statusCode, Message: msg}
}

// Verify Client implements both packaging interfaces at compile time
var (
	_ webtool.DraftCreator = (*Client)(nil)
	_ webtool.Stager       = (*Client)(nil)
)
