package models

import "time"

// NearbyMarker is a pure debounce record: the last time a user was
// notified about a particular spot. It carries no business meaning
// beyond suppressing repeat sends within the cooldown window.
type NearbyMarker struct {
	UserID     string    `bson:"userId" json:"userId"`
	ParkingID  string    `bson:"parkingId" json:"parkingId"`
	NotifiedAt time.Time `bson:"notifiedAt" json:"notifiedAt"`
}
