package model

import "time"

// Feedback is a rating plus comment a user left for a service.
//
// UserID and ServiceID are plain identifiers — the store enforces no
// referential integrity against the user or service tables, so feedback can
// outlive the service it describes.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ServiceID string    `json:"serviceId"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
