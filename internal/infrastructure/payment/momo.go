// Package payment contains the MTN MoMo collection client.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

const (
	defaultBaseURL     = "https://sandbox.momodeveloper.mtn.com"
	defaultEnvironment = "sandbox"
	defaultHTTPTimeout = 15 * time.Second

	// tokens are refreshed this long before the gateway expires them
	tokenExpiryMargin = 30 * time.Second
)

// Config holds the collection product credentials.
type Config struct {
	BaseURL           string
	SubscriptionKey   string
	APIUser           string
	APIKey            string
	TargetEnvironment string
	CallbackURL       string
	Timeout           time.Duration
}

// MomoClient implements ports.PaymentCollector against the MoMo collection API.
type MomoClient struct {
	cfg  Config
	http *http.Client
	now  func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewMomoClient(cfg Config) *MomoClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TargetEnvironment == "" {
		cfg.TargetEnvironment = defaultEnvironment
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	return &MomoClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns a cached bearer token, fetching a new one when the
// cached token is missing or about to expire.
func (c *MomoClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/collection/token/", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create momo token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.APIUser, c.cfg.APIKey)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)

	var tr tokenResponse
	if err := c.do(req, http.StatusOK, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("momo token response without access_token")
	}

	c.token = tr.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.token, nil
}

// RequestToPay submits a collection request and returns its reference id.
func (c *MomoClient) RequestToPay(ctx context.Context, pr domain.PaymentRequest) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(pr)
	if err != nil {
		return "", fmt.Errorf("failed to marshal momo payload: %w", err)
	}

	referenceID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/collection/v1_0/requesttopay", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create momo request: %w", err)
	}
	c.setHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reference-Id", referenceID)
	if c.cfg.CallbackURL != "" {
		req.Header.Set("X-Callback-Url", c.cfg.CallbackURL)
	}

	if err := c.do(req, http.StatusAccepted, nil); err != nil {
		return "", err
	}
	return referenceID, nil
}

// Transaction fetches the current state of a request-to-pay.
func (c *MomoClient) Transaction(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.cfg.BaseURL + "/collection/v1_0/requesttopay/" + url.PathEscape(referenceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create momo request: %w", err)
	}
	c.setHeaders(req, token)

	var tx domain.Transaction
	if err := c.do(req, http.StatusOK, &tx); err != nil {
		return nil, err
	}
	tx.ReferenceID = referenceID
	return &tx, nil
}

func (c *MomoClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Target-Environment", c.cfg.TargetEnvironment)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)
}

// do sends req and decodes the response into out when out is non-nil. Any
// status other than want is an error.
func (c *MomoClient) do(req *http.Request, want int, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("momo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("momo %s %s returned status %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode momo response: %w", err)
	}
	return nil
}
