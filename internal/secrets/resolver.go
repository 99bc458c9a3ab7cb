package secrets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Checker-Finance/zid-adapter/internal/config"
	pkgsecrets "github.com/Checker-Finance/zid-adapter/pkg/secrets"
	"github.com/Checker-Finance/zid-adapter/pkg/utils"
)

// ErrMissingClientSecret is returned when the secret does not carry client_secret.
var ErrMissingClientSecret = errors.New("secret has no client_secret")

// Secret fields holding the Zid OAuth application credentials.
const (
	fieldClientID     = "client_id"
	fieldClientSecret = "client_secret"
)

// CredentialResolver loads the Zid OAuth application credentials from a secrets
// manager so they do not have to live in the process environment.
type CredentialResolver struct {
	logger   *zap.Logger
	provider pkgsecrets.Provider
}

// NewCredentialResolver constructs a resolver backed by provider.
func NewCredentialResolver(logger *zap.Logger, provider pkgsecrets.Provider) *CredentialResolver {
	return &CredentialResolver{logger: logger, provider: provider}
}

// Apply fetches secretName and overwrites cfg's client credentials with its values.
// client_secret is mandatory; client_id only overrides when present.
// Must run before cfg is shared with handlers.
func (r *CredentialResolver) Apply(ctx context.Context, secretName string, cfg *config.Config) error {
	values, err := r.provider.GetSecret(ctx, secretName)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", secretName),
			zap.Error(err))
		return fmt.Errorf("resolve zid credentials: %w", err)
	}

	secret := values[fieldClientSecret]
	if secret == "" {
		return fmt.Errorf("parse secret %q: %w", secretName, ErrMissingClientSecret)
	}
	cfg.ClientSecret = secret
	if id := values[fieldClientID]; id != "" {
		cfg.ClientID = id
	}

	r.logger.Info("aws.zid_credentials_resolved",
		zap.String("key", secretName),
		zap.String("client_id", cfg.ClientID),
		zap.String("client_secret", utils.MaskToken(cfg.ClientSecret)))
	return nil
}
