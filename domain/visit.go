package domain

import "time"

// VisitEvent is a storefront page view recorded to the document store.
type VisitEvent struct {
	SessionID string    `bson:"session_id" json:"session_id"`
	UserID    uint      `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Path      string    `bson:"path" json:"path"`
	Referrer  string    `bson:"referrer,omitempty" json:"referrer,omitempty"`
	UserAgent string    `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
