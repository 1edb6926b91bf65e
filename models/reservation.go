package models

import "time"

// Reservation statuses.
const (
	ReservationActive   = "active"
	ReservationFinished = "finished"
)

// Reservation is a user's claim against one unit of a spot's capacity.
// There is at most one meaningful document per (user, parking) pair;
// re-reserving re-activates it rather than creating a duplicate.
type Reservation struct {
	UserID     string    `bson:"userId" json:"userId"`
	ParkingID  string    `bson:"parkingId" json:"parkingId"`
	Status     string    `bson:"status" json:"status"`
	ReservedAt time.Time `bson:"reservedAt" json:"reservedAt"`
	FinishedAt time.Time `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`
}
