package signup

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

	"netra/internal/clinic/models"
	dErrors "netra/pkg/domain-errors"
	"netra/pkg/platform/circuit"
	"netra/pkg/platform/sentinel"
)

const (
	verifyPath   = "/api/verify-clinic"
	accountsPath = "/api/accounts"

	maxResponseBytes = 1 << 20
)

// RejectedError is a non-2xx answer from the service. Message is the
// server's message field and may be empty.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected with HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("request rejected with HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Netra API. It implements both Verifier and
// AccountCreator. Transport failures and 5xx answers trip a circuit breaker;
// while it is open calls fail fast with sentinel.ErrUnavailable.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuit.Breaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(cl *Client) {
		cl.breaker = b
	}
}

// NewClient returns a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuit.New("netra-api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verifyRequest struct {
	HFRID string `json:"hfrId"`
}

type verifyResponse struct {
	Message string               `json:"message"`
	Clinic  *models.ClinicRecord `json:"clinic"`
}

// Verify calls POST /api/verify-clinic. Service answers other than 200 are
// returned as *RejectedError; anything else is a transport failure.
func (c *Client) Verify(ctx context.Context, licenseID string) (*models.ClinicRecord, error) {
	var resp verifyResponse
	if err := c.post(ctx, verifyPath, verifyRequest{HFRID: licenseID}, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	if resp.Clinic == nil {
		return nil, fmt.Errorf("verify response carries no clinic")
	}
	return resp.Clinic, nil
}

type createAccountResponse struct {
	Message string `json:"message"`
	Account struct {
		ID string `json:"id"`
	} `json:"account"`
}

// CreateAccount calls POST /api/accounts with the submission.
func (c *Client) CreateAccount(ctx context.Context, sub AccountSubmission) (*Receipt, error) {
	if sub.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "account submission requires a verified license")
	}
	var resp createAccountResponse
	if err := c.post(ctx, accountsPath, sub, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &Receipt{AccountID: resp.Account.ID, Message: resp.Message}, nil
}

func (c *Client) post(ctx context.Context, path string, body any, wantStatus int, out any) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("%s circuit open: %w", c.breaker.Name(), sentinel.ErrUnavailable)
	}
	err := c.do(ctx, path, body, wantStatus, out)
	var rejected *RejectedError
	switch {
	case err == nil, errors.As(err, &rejected) && rejected.StatusCode < http.StatusInternalServerError:
		c.breaker.RecordSuccess()
	case ctx.Err() != nil:
	default:
		c.breaker.RecordFailure()
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, body any, wantStatus int, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("parsing error response (HTTP %d): %w", resp.StatusCode, err)
		}
		return &RejectedError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing response JSON (HTTP %d): %w", resp.StatusCode, err)
	}
	return nil
}
