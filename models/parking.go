package models

import "time"

// Parking represents a published parking spot. Capacity is fixed at
// creation; AvailableSlots only ever changes through the reservation
// ledger and always satisfies 0 <= AvailableSlots <= Capacity.
type Parking struct {
	ID             string    `bson:"id" json:"id"`
	Title          string    `bson:"title" json:"title"`
	Address        string    `bson:"address" json:"address"`
	Latitude       float64   `bson:"latitude" json:"latitude"`
	Longitude      float64   `bson:"longitude" json:"longitude"`
	OwnerID        string    `bson:"ownerId" json:"ownerId"`
	Capacity       int       `bson:"capacity" json:"capacity"`
	AvailableSlots int       `bson:"availableSlots" json:"availableSlots"`
	Active         bool      `bson:"active" json:"active"`
	PricePerHour   float64   `bson:"pricePerHour" json:"pricePerHour"`
	HasCharger     bool      `bson:"hasCharger" json:"hasCharger"`
	HasRamp        bool      `bson:"hasRamp" json:"hasRamp"`
	IsCovered      bool      `bson:"isCovered" json:"isCovered"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// ParkingUpdate carries the fields the owning user may change after
// publication. Nil pointers leave the stored value untouched.
type ParkingUpdate struct {
	Active       *bool    `json:"active,omitempty"`
	PricePerHour *float64 `json:"pricePerHour,omitempty"`
	HasCharger   *bool    `json:"hasCharger,omitempty"`
	HasRamp      *bool    `json:"hasRamp,omitempty"`
	IsCovered    *bool    `json:"isCovered,omitempty"`
}

// Rating is a per-user star rating for a parking spot, one document
// per (parking, user) pair.
type Rating struct {
	ParkingID string    `bson:"parkingId" json:"parkingId"`
	UserID    string    `bson:"userId" json:"userId"`
	Stars     int       `bson:"stars" json:"stars"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
