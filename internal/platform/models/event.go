package models

import (
	"encoding/json"
	"time"
)

type Event struct {
	ID             int64           `json:"id"`
	OrganizationID string          `json:"org_id"`
	UserID         *string         `json:"user_id,omitempty"`
	EventTime      time.Time       `json:"event_time"`
	Category       *string         `json:"category,omitempty"`
	Segment        *string         `json:"segment,omitempty"`
	Value          *float64        `json:"value,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EventFilter narrows an event query. Zero values mean "no constraint".
type EventFilter struct {
	From     time.Time
	To       time.Time
	Category string
	Segment  string
	Limit    int
}
