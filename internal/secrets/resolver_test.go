package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/zid-adapter/internal/config"
)

type fakeProvider struct {
	secrets map[string]map[string]string
	err     error
	calls   []string
}

func (f *fakeProvider) GetSecret(_ context.Context, name string) (map[string]string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.secrets[name]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return v, nil
}

func TestApply_OverridesCredentials(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"prod/zid/oauth": {"client_id": "9876", "client_secret": "from-aws"},
	}}
	cfg := &config.Config{ClientID: "env-id", ClientSecret: "env-secret"}

	err := NewCredentialResolver(zap.NewNop(), provider).Apply(context.Background(), "prod/zid/oauth", cfg)
	require.NoError(t, err)

	assert.Equal(t, "9876", cfg.ClientID)
	assert.Equal(t, "from-aws", cfg.ClientSecret)
	assert.Equal(t, []string{"prod/zid/oauth"}, provider.calls)
}

func TestApply_KeepsEnvClientIDWhenAbsent(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"zid": {"client_secret": "from-aws"},
	}}
	cfg := &config.Config{ClientID: "env-id"}

	require.NoError(t, NewCredentialResolver(zap.NewNop(), provider).Apply(context.Background(), "zid", cfg))
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "from-aws", cfg.ClientSecret)
}

func TestApply_MissingClientSecret(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"zid": {"client_id": "9876"},
	}}
	cfg := &config.Config{ClientID: "env-id", ClientSecret: "env-secret"}

	err := NewCredentialResolver(zap.NewNop(), provider).Apply(context.Background(), "zid", cfg)
	assert.ErrorIs(t, err, ErrMissingClientSecret)
	assert.Equal(t, "env-id", cfg.ClientID, "config must be untouched on failure")
	assert.Equal(t, "env-secret", cfg.ClientSecret)
}

func TestApply_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("AccessDeniedException")}
	cfg := &config.Config{}

	err := NewCredentialResolver(zap.NewNop(), provider).Apply(context.Background(), "zid", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDeniedException")
}
