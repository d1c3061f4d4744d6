// Package model defines the data structures used throughout the application.
package model

import "time"

// Service represents a support service registered in the directory — a
// shelter, food bank, healthcare center, or similar resource.
//
// Category is a plain string reference into the category registry. It is
// checked at registration time only; deleting a category later leaves any
// services that reference it dangling. That is deliberate: the directory
// keeps no foreign key between the two tables.
type Service struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Latitude      float64   `json:"latitude"`  // [-90, 90]
	Longitude     float64   `json:"longitude"` // [-180, 180]
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Zipcode       string    `json:"zipcode"`       // exactly 5 digits
	ContactNumber string    `json:"contactNumber"`
	OperationHour string    `json:"operationHour"` // e.g. "9 AM - 5 PM"
	Availability  bool      `json:"availability"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ServicePatch carries a partial update for a Service. Every field is a
// pointer so the merge can tell "explicitly set to false/empty" apart from
// "not provided" — a bare bool could not express an absent availability.
type ServicePatch struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Address       *string  `json:"address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Zipcode       *string  `json:"zipcode"`
	ContactNumber *string  `json:"contactNumber"`
	OperationHour *string  `json:"operationHour"`
	Availability  *bool    `json:"availability"`
}

// Apply overwrites s with every field present on the patch. Nil fields
// leave the existing value untouched.
func (p ServicePatch) Apply(s *Service) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Latitude != nil {
		s.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		s.Longitude = *p.Longitude
	}
	if p.Address != nil {
		s.Address = *p.Address
	}
	if p.City != nil {
		s.City = *p.City
	}
	if p.State != nil {
		s.State = *p.State
	}
	if p.Zipcode != nil {
		s.Zipcode = *p.Zipcode
	}
	if p.ContactNumber != nil {
		s.ContactNumber = *p.ContactNumber
	}
	if p.OperationHour != nil {
		s.OperationHour = *p.OperationHour
	}
	if p.Availability != nil {
		s.Availability = *p.Availability
	}
}

// ServiceFilter holds the optional predicates of a directory query. A nil
// field means the predicate is absent, not "match zero value". The distance
// bound applies only when both coordinates are present.
type ServiceFilter struct {
	Latitude     *float64
	Longitude    *float64
	Category     *string
	Availability *bool
}
