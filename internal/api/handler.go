package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Checker-Finance/zid-adapter/internal/config"
	"github.com/Checker-Finance/zid-adapter/internal/metrics"
	"github.com/Checker-Finance/zid-adapter/internal/zid"
	"github.com/Checker-Finance/zid-adapter/pkg/model"
	"github.com/Checker-Finance/zid-adapter/pkg/utils"
)

const authorizePath = "/oauth/authorize"

// ZidClient defines the provider calls used by the callback.
type ZidClient interface {
	ExchangeCode(ctx context.Context, code string) (*zid.TokenResponse, error)
	MerchantProfile(ctx context.Context, managerToken, authToken string) (json.RawMessage, error)
}

// EventPublisher announces completed OAuth flows. Optional.
type EventPublisher interface {
	PublishMerchantConnected(ctx context.Context, evt model.MerchantConnected) error
}

// OAuthHandler serves the Zid authorization redirect and callback.
type OAuthHandler struct {
	logger    *zap.Logger
	cfg       *config.Config
	client    ZidClient
	publisher EventPublisher
}

// NewOAuthHandler creates a new OAuthHandler. publisher may be nil.
func NewOAuthHandler(logger *zap.Logger, cfg *config.Config, client ZidClient, publisher EventPublisher) *OAuthHandler {
	return &OAuthHandler{
		logger:    logger,
		cfg:       cfg,
		client:    client,
		publisher: publisher,
	}
}

// Redirect sends the user agent to the Zid authorization page.
func (h *OAuthHandler) Redirect(c *fiber.Ctx) error {
	if h.cfg.AuthURL == "" {
		h.logger.Error("zid.redirect.failed", zap.String("reason", msgMissingAuthURL))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgMissingAuthURL})
	}

	oc := oauth2.Config{
		ClientID:    h.cfg.ClientID,
		RedirectURL: h.cfg.RedirectURI(),
		Endpoint:    oauth2.Endpoint{AuthURL: h.cfg.AuthURL + authorizePath},
	}
	return c.Redirect(oc.AuthCodeURL(""), fiber.StatusFound)
}

// Callback completes the flow: code → tokens → merchant profile.
// Only the token exchange can fail the request; a missing profile is left out of the body.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		metrics.IncCallback(metrics.OutcomeMissingCode)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgMissingCode})
	}

	ctx := c.UserContext()

	tokens, err := h.client.ExchangeCode(ctx, code)
	if err != nil {
		metrics.IncCallback(metrics.OutcomeTokenFailed)
		h.logger.Error("zid.callback.token_failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgTokenFailed})
	}

	profile, err := h.client.MerchantProfile(ctx, tokens.AccessToken, tokens.Authorization)
	if err != nil {
		metrics.IncCallback(metrics.OutcomeProfileMissing)
		h.logger.Warn("zid.callback.profile_unavailable",
			zap.String("manager_token", utils.MaskToken(tokens.AccessToken)),
			zap.Error(err))
		profile = nil
	} else {
		metrics.IncCallback(metrics.OutcomeCompleted)
	}

	h.announce(ctx, profile)

	return c.Status(fiber.StatusOK).JSON(CallbackResponse{
		Message: msgCompleted,
		Tokens: TokenSet{
			ManagerToken: tokens.AccessToken,
			AuthToken:    tokens.Authorization,
			RefreshToken: tokens.RefreshToken,
		},
		MerchantDetails: profile,
	})
}

// announce publishes the merchant-connected event. Failures never reach the caller.
func (h *OAuthHandler) announce(ctx context.Context, profile json.RawMessage) {
	storeID, storeTitle := zid.StoreSummary(profile)
	h.logger.Info("zid.callback.completed",
		zap.String("store_id", storeID),
		zap.Bool("profile", profile != nil))

	if h.publisher == nil {
		return
	}
	evt := model.MerchantConnected{
		StoreID:     storeID,
		StoreTitle:  storeTitle,
		Profile:     profile,
		ConnectedAt: time.Now().UTC(),
	}
	if err := h.publisher.PublishMerchantConnected(ctx, evt); err != nil {
		h.logger.Warn("zid.callback.publish_failed",
			zap.String("store_id", storeID),
			zap.Error(err))
	}
}
