package models

import "time"

// User represents a registered user of the platform.
type User struct {
	ID               string    `bson:"id" json:"id"`
	FirstName        string    `bson:"firstName" json:"firstName"`
	LastName         string    `bson:"lastName" json:"lastName"`
	Email            string    `bson:"email" json:"email"`
	PhoneNumber      string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash     string    `bson:"passwordHash" json:"-"`
	Points           int       `bson:"points" json:"points"`
	Rank             int       `bson:"rank" json:"rank"`
	Latitude         *float64  `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude        *float64  `bson:"longitude,omitempty" json:"longitude,omitempty"`
	FCMToken         string    `bson:"fcmToken,omitempty" json:"-"`
	LastParkingCount int       `bson:"lastParkingCount" json:"lastParkingCount"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasLocation reports whether the user has a usable last-known position.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
