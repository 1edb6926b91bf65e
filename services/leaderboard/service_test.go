package leaderboard

import (
	"context"
	"testing"

	userRepo "spotshare/database/repository/user"
	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankEntries(t *testing.T) {
	tests := []struct {
		name      string
		points    []int
		wantRanks []int
	}{
		{name: "no ties", points: []int{30, 20, 10}, wantRanks: []int{1, 2, 3}},
		{name: "tie at the top", points: []int{30, 30, 10}, wantRanks: []int{1, 1, 3}},
		{name: "tie in the middle", points: []int{30, 20, 20, 10}, wantRanks: []int{1, 2, 2, 4}},
		{name: "all tied", points: []int{5, 5, 5}, wantRanks: []int{1, 1, 1}},
		{name: "empty", points: nil, wantRanks: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := make([]models.User, len(tc.points))
			for i, p := range tc.points {
				users[i] = models.User{ID: string(rune('a' + i)), Points: p}
			}

			entries := rankEntries(users)
			require.Len(t, entries, len(tc.wantRanks))
			for i, want := range tc.wantRanks {
				assert.Equal(t, want, entries[i].Rank, "entry %d", i)
				assert.Equal(t, tc.points[i], entries[i].Points)
			}
		})
	}
}

func TestTopWithoutCache(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(
		&models.User{ID: "a", FirstName: "Ann", Points: 50},
		&models.User{ID: "b", FirstName: "Bob", Points: 80},
		&models.User{ID: "c", FirstName: "Cat", Points: 80},
		&models.User{ID: "d", FirstName: "Dan", Points: 10},
	)
	svc := &DefaultService{Repo: repo}

	entries, err := svc.Top(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, 80, entries[0].Points)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, 50, entries[2].Points)
	assert.Equal(t, "Ann", entries[2].FirstName)
}
