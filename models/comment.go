package models

import "time"

// Comment is a user comment on a parking spot. Likes and Dislikes
// always equal the number of persisted votes with the matching value.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	ParkingID string    `bson:"parkingId" json:"parkingId"`
	AuthorID  string    `bson:"authorId" json:"authorId"`
	Text      string    `bson:"text" json:"text"`
	Likes     int       `bson:"likes" json:"likes"`
	Dislikes  int       `bson:"dislikes" json:"dislikes"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// VoteValue is a voter's stance on a comment.
type VoteValue string

const (
	VoteLike    VoteValue = "like"
	VoteDislike VoteValue = "dislike"
)

// Valid reports whether v is one of the two accepted vote values.
func (v VoteValue) Valid() bool {
	return v == VoteLike || v == VoteDislike
}

// Vote records a single voter's current stance on a comment. At most
// one document exists per (comment, voter); re-votes overwrite it.
type Vote struct {
	CommentID string    `bson:"commentId" json:"commentId"`
	VoterID   string    `bson:"voterId" json:"voterId"`
	Value     VoteValue `bson:"value" json:"value"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
