package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Checker-Finance/zid-adapter/pkg/config"
)

// DefaultCallbackPath is where Zid sends the user back after authorization.
const DefaultCallbackPath = "/zid/auth/callback"

// Config holds the runtime configuration for the zid-adapter.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	ServiceName      string
	Env              string
	LogLevel         string
	Port             int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Zid OAuth application
	ClientID     string
	ClientSecret string
	AuthURL      string // e.g. https://oauth.zid.sa
	APIURL       string // e.g. https://api.zid.sa/v1
	BackendURL   string // public base URL of this service
	CallbackPath string

	// Optional integrations; empty disables them.
	NATSURL       string
	EventsSubject string
	SecretName    string
	AWSRegion     string
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:      pkgconfig.GetEnv("SERVICE_NAME", "zid-adapter"),
		Env:              pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:         pkgconfig.GetEnv("LOG_LEVEL", "info"),
		Port:             pkgconfig.GetEnvInt("PORT", 3000),
		HTTPReadTimeout:  pkgconfig.GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: pkgconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:  pkgconfig.GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ClientID:         pkgconfig.GetEnv("ZID_CLIENT_ID", ""),
		ClientSecret:     pkgconfig.GetEnv("ZID_CLIENT_SECRET", ""),
		AuthURL:          trimBase(pkgconfig.GetEnv("ZID_AUTH_URL", "")),
		APIURL:           trimBase(pkgconfig.GetEnv("ZID_BASE_API_URL", "")),
		BackendURL:       trimBase(pkgconfig.GetEnv("MY_BACKEND_URL", "")),
		CallbackPath:     pkgconfig.GetEnv("ZID_CALLBACK_PATH", DefaultCallbackPath),
		NATSURL:          pkgconfig.GetEnv("NATS_URL", ""),
		EventsSubject:    pkgconfig.GetEnv("ZID_EVENTS_SUBJECT", "evt.zid.merchant.connected.v1"),
		SecretName:       pkgconfig.GetEnv("ZID_SECRET_NAME", ""),
		AWSRegion:        pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
	}
}

// RedirectURI is the callback URL registered with Zid. It must be identical in
// the authorize request and the token exchange.
func (c *Config) RedirectURI() string {
	return c.BackendURL + c.CallbackPath
}

// Missing lists the environment variables backing required settings that are still empty.
func (c *Config) Missing() []string {
	required := []struct {
		env string
		val string
	}{
		{"ZID_CLIENT_ID", c.ClientID},
		{"ZID_CLIENT_SECRET", c.ClientSecret},
		{"ZID_AUTH_URL", c.AuthURL},
		{"ZID_BASE_API_URL", c.APIURL},
		{"MY_BACKEND_URL", c.BackendURL},
	}

	var out []string
	for _, r := range required {
		if r.val == "" {
			out = append(out, r.env)
		}
	}
	return out
}

func trimBase(u string) string {
	return strings.TrimRight(u, "/")
}
