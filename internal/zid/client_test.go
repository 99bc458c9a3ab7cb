package zid

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/zid-adapter/internal/config"
	"github.com/Checker-Finance/zid-adapter/internal/httpclient"
)

func testConfig(authURL, apiURL string) *config.Config {
	return &config.Config{
		ClientID:     "4321",
		ClientSecret: "client-secret",
		AuthURL:      authURL,
		APIURL:       apiURL,
		BackendURL:   "https://relay.example.com",
		CallbackPath: config.DefaultCallbackPath,
	}
}

// closedServerURL returns the URL of a server that is no longer listening.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// ─── ExchangeCode ─────────────────────────────────────────────────────────────

func TestExchangeCode_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body TokenRequest
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, TokenRequest{
			GrantType:    "authorization_code",
			ClientID:     "4321",
			ClientSecret: "client-secret",
			RedirectURI:  "https://relay.example.com/zid/auth/callback",
			Code:         "abc",
		}, body)

		_, _ = w.Write([]byte(`{"access_token":"mgr-token-123","authorization":"auth-token-456","refresh_token":"refresh-789","expires_in":31536000}`))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), testConfig(srv.URL, ""), srv.Client())

	tokens, err := c.ExchangeCode(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "mgr-token-123", tokens.AccessToken)
	assert.Equal(t, "auth-token-456", tokens.Authorization)
	assert.Equal(t, "refresh-789", tokens.RefreshToken)
	assert.EqualValues(t, 31536000, tokens.ExpiresIn)
}

func TestExchangeCode_MissingAuthURL(t *testing.T) {
	c := NewClient(zap.NewNop(), testConfig("", ""), nil)

	tokens, err := c.ExchangeCode(context.Background(), "abc")
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrMissingAuthURL)
}

func TestExchangeCode_NetworkError(t *testing.T) {
	c := NewClient(zap.NewNop(), testConfig(closedServerURL(t), ""), nil)

	tokens, err := c.ExchangeCode(context.Background(), "abc")
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, httpclient.ErrRequestFailed)
}

func TestExchangeCode_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), testConfig(srv.URL, ""), srv.Client())

	_, err := c.ExchangeCode(context.Background(), "abc")
	assert.ErrorIs(t, err, httpclient.ErrDecodeFailed)
}

func TestExchangeCode_RejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), testConfig(srv.URL, ""), srv.Client())

	_, err := c.ExchangeCode(context.Background(), "expired")
	assert.ErrorIs(t, err, httpclient.ErrUnexpectedStatus)
}

func TestExchangeCode_EmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"authorization":"auth-only"}`))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), testConfig(srv.URL, ""), srv.Client())

	_, err := c.ExchangeCode(context.Background(), "abc")
	assert.True(t, errors.Is(err, ErrEmptyAccessToken))
}

// ─── MerchantProfile ──────────────────────────────────────────────────────────

func TestMerchantProfile_SendsAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/managers/account/profile", r.URL.Path)
		assert.Equal(t, "Bearer auth-token-456", r.Header.Get("Authorization"))
		assert.Equal(t, "mgr-token-123", r.Header.Get("X-Manager-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"user":{"id":7,"store":{"id":99,"title":"Dates Shop"}}}`))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), testConfig("", srv.URL+"/v1"), srv.Client())

	profile, err := c.MerchantProfile(context.Background(), "mgr-token-123", "auth-token-456")
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":7,"store":{"id":99,"title":"Dates Shop"}}}`, string(profile))
}

func TestMerchantProfile_MissingAPIURL(t *testing.T) {
	c := NewClient(zap.NewNop(), testConfig("https://oauth.zid.sa", ""), nil)

	profile, err := c.MerchantProfile(context.Background(), "m", "a")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrMissingAPIURL)
}

func TestMerchantProfile_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	defer srv.Close()

	c := NewClient(zap.NewNop(), testConfig("", srv.URL), srv.Client())

	profile, err := c.MerchantProfile(context.Background(), "m", "a")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, httpclient.ErrUnexpectedStatus)
}

func TestMerchantProfile_NetworkError(t *testing.T) {
	c := NewClient(zap.NewNop(), testConfig("", closedServerURL(t)), nil)

	_, err := c.MerchantProfile(context.Background(), "m", "a")
	assert.ErrorIs(t, err, httpclient.ErrRequestFailed)
}

// ─── StoreSummary ─────────────────────────────────────────────────────────────

func TestStoreSummary(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		wantID    string
		wantTitle string
	}{
		{name: "numeric id", profile: `{"user":{"store":{"id":1234567,"title":"Oud"}}}`, wantID: "1234567", wantTitle: "Oud"},
		{name: "string id", profile: `{"user":{"store":{"id":"s-1","title":"Oud"}}}`, wantID: "s-1", wantTitle: "Oud"},
		{name: "null id", profile: `{"user":{"store":{"id":null}}}`},
		{name: "unknown shape", profile: `[1,2,3]`},
		{name: "empty", profile: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, title := StoreSummary(json.RawMessage(tt.profile))
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}
