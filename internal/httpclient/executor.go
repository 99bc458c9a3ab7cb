package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrRequestFailed is returned when the request never produced a response.
	ErrRequestFailed = errors.New("request failed")
	// ErrUnexpectedStatus is returned for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrDecodeFailed is returned when a response body is not valid JSON for the target.
	ErrDecodeFailed = errors.New("decode failed")
)

// maxLoggedBody caps how much of an error body ends up in logs.
const maxLoggedBody = 512

// Observer receives one call per executed request. status is 0 when no response arrived.
type Observer func(endpoint, method string, status int, elapsed time.Duration)

// Executor performs a single HTTP attempt and JSON-decodes the response.
// It never retries: callers decide what a failure means.
type Executor struct {
	logger   *zap.Logger
	http     *http.Client
	venueTag string
	observe  Observer
}

// New creates an Executor. observe may be nil.
func New(logger *zap.Logger, httpClient *http.Client, venueTag string, observe Observer) *Executor {
	return &Executor{
		logger:   logger,
		http:     httpClient,
		venueTag: venueTag,
		observe:  observe,
	}
}

// DoJSON executes req once and decodes a 2xx body into out.
// endpoint is a stable label for logs and metrics (not the full URL).
func (e *Executor) DoJSON(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.record(endpoint, req.Method, 0, time.Since(start))
		e.logger.Error(e.venueTag+".http_failed",
			zap.String("endpoint", endpoint),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w: %w", e.venueTag, endpoint, ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	e.record(endpoint, req.Method, resp.StatusCode, elapsed)
	if err != nil {
		e.logger.Error(e.venueTag+".read_failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return fmt.Errorf("%s %s: read body: %w: %w", e.venueTag, endpoint, ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Error(e.venueTag+".unexpected_status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", elapsed),
			zap.String("body", truncate(body)))
		return fmt.Errorf("%s %s returned %d: %w", e.venueTag, endpoint, resp.StatusCode, ErrUnexpectedStatus)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			e.logger.Error(e.venueTag+".decode_failed",
				zap.String("endpoint", endpoint),
				zap.Error(err),
				zap.String("body", truncate(body)))
			return fmt.Errorf("%s %s: %w: %w", e.venueTag, endpoint, ErrDecodeFailed, err)
		}
	}

	e.logger.Debug(e.venueTag+".http_success",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return nil
}

func (e *Executor) record(endpoint, method string, status int, elapsed time.Duration) {
	if e.observe != nil {
		e.observe(endpoint, method, status, elapsed)
	}
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}
