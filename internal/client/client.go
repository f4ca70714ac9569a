// Package client implements the request lifecycle against the remote
// question-answering service: two POST endpoints, a fixed upper bound per
// request, and no automatic retry. A timed-out or failed request is
// terminal; only a fresh submission creates a new attempt.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"beacon/internal/auth"
	beaconErrors "beacon/internal/errors"
)

const (
	queryPath    = "/v1/query"
	feedbackPath = "/v1/feedback"

	// DefaultRequestTimeout is the fixed upper bound on one request.
	DefaultRequestTimeout = 10 * time.Minute

	maxErrorBodyBytes = 1 << 20
)

// QueryRequest is the outgoing body of one conversation turn.
type QueryRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Query          string `json:"query"`
}

// QueryResponse is the remote service's answer to a query.
type QueryResponse struct {
	ConversationID      string         `json:"conversation_id"`
	Query               string         `json:"query"`
	ReferencedDocuments ReferencedDocs `json:"referenced_documents"`
	Response            string         `json:"response"`
	Truncated           bool           `json:"truncated"`
}

// FeedbackRequest rates one assistant response. Sentiment is absent when
// the user rated neither way.
type FeedbackRequest struct {
	ConversationID string `json:"conversation_id"`
	LLMResponse    string `json:"llm_response"`
	Sentiment      *int   `json:"sentiment,omitempty"`
	UserFeedback   string `json:"user_feedback"`
	UserQuestion   string `json:"user_question"`
}

// APIError is a server-side rejection carrying the structured detail
// field when the server provided one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return beaconErrors.ErrRemote
}

// Client talks to the remote question-answering service.
type Client struct {
	baseURL    string
	tokens     auth.TokenSource
	httpClient *http.Client
	timeout    time.Duration
}

func New(baseURL string, tokens auth.TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Query submits one conversation turn.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.post(ctx, queryPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendFeedback submits a rating for one assistant turn. The response body
// carries no meaningful content beyond success or failure.
func (c *Client) SendFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.post(ctx, feedbackPath, req, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("resolve auth token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return beaconErrors.MapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return apiErr
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

// ErrorMessage applies the failure message precedence: the structured
// server-provided detail, else the error's own message, else the fixed
// fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
