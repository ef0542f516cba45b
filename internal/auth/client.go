package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client verifies bearer tokens against the identity service
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates an identity service client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With().Str("client", "auth").Logger(),
	}
}

// Verify resolves a bearer token to an identity. Any rejection by the
// identity service surfaces as ErrUnauthorized; only transport failures are
// reported as plain errors.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/tokeninfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Msg("Token rejected")
		return nil, fmt.Errorf("%w: identity service returned %d", ErrUnauthorized, resp.StatusCode)
	}

	var payload struct {
		UID   string `json:"uid"`
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	uid := payload.UID
	if uid == "" {
		uid = payload.Sub
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: tokeninfo response carries no subject", ErrUnauthorized)
	}

	return &Identity{UID: uid, Email: payload.Email}, nil
}
