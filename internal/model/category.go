package model

import "time"

// Category is an entry in the registry of valid service categories
// ("shelters", "food banks", ...). Name is unique across the registry.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
