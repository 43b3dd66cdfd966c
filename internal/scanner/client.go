package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"campusconnect/internal/domain"
)

type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client verifies tickets against the check-in API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

var _ Verifier = (*Client)(nil)

// NewClient returns a client for the API at baseURL. token may be set later by Login.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

// Login exchanges organizer credentials for a bearer token and keeps it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out envelope[struct {
		Token string `json:"token"`
	}]
	if err := c.post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.token = out.Data.Token
	return nil
}

// Verify posts the scanned payload to /checkins.
func (c *Client) Verify(ctx context.Context, payload string) (*domain.CheckInResult, error) {
	var out envelope[*domain.CheckInResult]
	if err := c.post(ctx, "/checkins", map[string]string{"payload": payload}, &out); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("verify: empty response")
	}
	return out.Data, nil
}

func (c *Client) post(ctx context.Context, path string, body any, dest any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failed envelope[json.RawMessage]
		if json.NewDecoder(resp.Body).Decode(&failed) == nil && failed.Error != nil {
			return fmt.Errorf("api returned status %d: %s", resp.StatusCode, failed.Error.Message)
		}
		return fmt.Errorf("api returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
