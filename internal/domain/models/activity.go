// File: internal/domain/models/activity.go
package models

import (
	"encoding/json"
	"time"
)

// Activity log actions and sync outcomes.
const (
	ActionConnect = "connect"
	ActionSync    = "sync"

	SyncStarted = "started"
	SyncSuccess = "success"
	SyncFailed  = "failed"
)

// ActivityLog is one structured audit entry (connect events, sync
// started/success/failed outcomes).
type ActivityLog struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SyncDetails is the details payload for sync entries.
type SyncDetails struct {
	ConnectionID int64  `json:"connection_id"`
	ItemType     string `json:"item_type"`
	Status       string `json:"status"`
	ItemsSynced  int    `json:"items_synced"`
	Error        string `json:"error,omitempty"`
}

// ConnectDetails is the details payload for connect entries.
type ConnectDetails struct {
	Platform Provider `json:"platform"`
	Account  string   `json:"account"`
}
