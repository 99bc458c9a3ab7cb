package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical wrapper for every event published by the adapter.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// MerchantConnected is emitted once a merchant finishes the Zid OAuth flow.
// It never carries tokens.
type MerchantConnected struct {
	StoreID     string          `json:"store_id,omitempty"`
	StoreTitle  string          `json:"store_title,omitempty"`
	Profile     json.RawMessage `json:"profile,omitempty"`
	ConnectedAt time.Time       `json:"connected_at"`
}
