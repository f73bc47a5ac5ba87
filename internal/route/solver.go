package route

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gisops/webtool/pkg/webtool"
)

// SolverClient submits route solves to a route-solving service.
type SolverClient struct {
	solverURL  string
	httpClient *http.Client
	logger     webtool.Logger
}

// SolverOption configures a SolverClient.
type SolverOption func(*SolverClient)

// WithHTTPClient overrides the HTTP client (tests use httptest clients).
func WithHTTPClient(h *http.Client) SolverOption {
	return func(c *SolverClient) {
		c.httpClient = h
	}
}

// NewSolverClient creates a solver client for the given service URL.
// Panics if logger is nil.
func NewSolverClient(solverURL string, logger webtool.Logger, opts ...SolverOption) *SolverClient {
	if logger == nil {
		panic("logger cannot be nil")
	}

	c := &SolverClient{
		solverURL:  strings.TrimRight(solverURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Solve submits the request and returns the solver's result. A completed
// solve that did not succeed is returned as a result, not an error, so the
// caller can report the solver's diagnostics.
func (c *SolverClient) Solve(ctx context.Context, req webtool.SolveRequest) (*webtool.SolveResult, error) {
	if len(req.Stops) < 2 {
		return nil, fmt.Errorf("a route needs at least two stops, got %d: %w", len(req.Stops), webtool.ErrInvalidConfig)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("Solving route with %d stops (travel mode %q)", len(req.Stops), req.TravelMode)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.solverURL+"/solve", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
			msg = msg[:idx]
		}
		return nil, &webtool.PortalError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result webtool.SolveResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unexpected solver response: %w", err)
	}

	c.logger.Verbose("Solve finished: succeeded=%t, %d directions, %d messages",
		result.Succeeded, len(result.Directions), len(result.Messages))
	return &result, nil
}

// Verify SolverClient implements the Solver interface at compile time
var _ webtool.Solver = (*SolverClient)(nil)
