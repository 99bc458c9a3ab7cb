package zid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/zid-adapter/internal/config"
	"github.com/Checker-Finance/zid-adapter/internal/httpclient"
	"github.com/Checker-Finance/zid-adapter/internal/metrics"
	"github.com/Checker-Finance/zid-adapter/pkg/utils"
)

const (
	tokenPath   = "/oauth/token"
	profilePath = "/managers/account/profile"

	endpointToken   = "oauth_token"
	endpointProfile = "merchant_profile"

	defaultTimeout = 30 * time.Second
)

var (
	// ErrMissingAuthURL is returned when ZID_AUTH_URL is not configured.
	ErrMissingAuthURL = errors.New("zid: missing ZID_AUTH_URL environment variable")
	// ErrMissingAPIURL is returned when ZID_BASE_API_URL is not configured.
	ErrMissingAPIURL = errors.New("zid: missing ZID_BASE_API_URL environment variable")
	// ErrEmptyAccessToken is returned when Zid answers the exchange without a manager token.
	ErrEmptyAccessToken = errors.New("zid: token response has no access_token")
)

// Client performs the two outbound calls of the OAuth flow against Zid.
// Each call is attempted exactly once.
type Client struct {
	logger *zap.Logger
	cfg    *config.Config
	exec   *httpclient.Executor
}

// NewClient constructs a Zid client. A nil httpClient gets a default with a 30s timeout.
func NewClient(logger *zap.Logger, cfg *config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		logger: logger,
		cfg:    cfg,
		exec:   httpclient.New(logger, httpClient, "zid", metrics.ObserveZidRequest),
	}
}

// ExchangeCode trades an authorization code for merchant tokens.
// POST {auth}/oauth/token
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	if c.cfg.AuthURL == "" {
		c.logger.Error("zid.token_exchange.failed", zap.Error(ErrMissingAuthURL))
		return nil, ErrMissingAuthURL
	}

	payload := TokenRequest{
		GrantType:    "authorization_code",
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURI:  c.cfg.RedirectURI(),
		Code:         code,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("zid: marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL+tokenPath, bytes.NewReader(data))
	if err != nil {
		c.logger.Error("zid.token_exchange.failed", zap.Error(err))
		return nil, fmt.Errorf("zid: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var tokens TokenResponse
	if err := c.exec.DoJSON(req, endpointToken, &tokens); err != nil {
		c.logger.Error("zid.token_exchange.failed", zap.Error(err))
		return nil, fmt.Errorf("zid: exchange code for tokens: %w", err)
	}
	if tokens.AccessToken == "" {
		c.logger.Error("zid.token_exchange.failed", zap.Error(ErrEmptyAccessToken))
		return nil, ErrEmptyAccessToken
	}

	c.logger.Info("zid.token_exchange.ok",
		zap.String("manager_token", utils.MaskToken(tokens.AccessToken)),
		zap.Int64("expires_in_sec", tokens.ExpiresIn))

	return &tokens, nil
}

// MerchantProfile fetches the profile of the manager that authorized the app.
// The body is returned untouched.
// GET {api}/managers/account/profile
func (c *Client) MerchantProfile(ctx context.Context, managerToken, authToken string) (json.RawMessage, error) {
	if c.cfg.APIURL == "" {
		c.logger.Error("zid.profile.failed", zap.Error(ErrMissingAPIURL))
		return nil, ErrMissingAPIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+profilePath, nil)
	if err != nil {
		c.logger.Error("zid.profile.failed", zap.Error(err))
		return nil, fmt.Errorf("zid: build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("X-Manager-Token", managerToken)
	req.Header.Set("Accept", "application/json")

	var profile json.RawMessage
	if err := c.exec.DoJSON(req, endpointProfile, &profile); err != nil {
		c.logger.Error("zid.profile.failed",
			zap.String("manager_token", utils.MaskToken(managerToken)),
			zap.Error(err))
		return nil, fmt.Errorf("zid: fetch merchant profile: %w", err)
	}

	return profile, nil
}
