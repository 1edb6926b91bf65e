package models

// LeaderboardEntry is one row of the ranked points display. Rank uses
// standard competition ranking: users with equal points share a rank.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Points    int    `json:"points"`
}
