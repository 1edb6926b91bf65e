package commentRepo

import (
	"context"
	"testing"

	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteDeltas(t *testing.T) {
	tests := []struct {
		name         string
		prior        models.VoteValue
		requested    models.VoteValue
		likeDelta    int
		dislikeDelta int
		changed      bool
	}{
		{name: "first like", prior: "", requested: models.VoteLike, likeDelta: 1, changed: true},
		{name: "first dislike", prior: "", requested: models.VoteDislike, dislikeDelta: 1, changed: true},
		{name: "like twice is a no-op", prior: models.VoteLike, requested: models.VoteLike},
		{name: "dislike twice is a no-op", prior: models.VoteDislike, requested: models.VoteDislike},
		{name: "flip like to dislike", prior: models.VoteLike, requested: models.VoteDislike, likeDelta: -1, dislikeDelta: 1, changed: true},
		{name: "flip dislike to like", prior: models.VoteDislike, requested: models.VoteLike, likeDelta: 1, dislikeDelta: -1, changed: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			likeDelta, dislikeDelta, changed := voteDeltas(tc.prior, tc.requested)
			assert.Equal(t, tc.likeDelta, likeDelta)
			assert.Equal(t, tc.dislikeDelta, dislikeDelta)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestCastVoteIsIdempotent(t *testing.T) {
	repo := NewMemoryCommentRepo(&models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	changed, err := repo.CastVote(context.Background(), "c1", "voter", models.VoteLike)
	require.NoError(t, err)
	assert.True(t, changed)

	// Hammering the same vote never moves the counters again.
	for i := 0; i < 5; i++ {
		changed, err = repo.CastVote(context.Background(), "c1", "voter", models.VoteLike)
		require.NoError(t, err)
		assert.False(t, changed)
	}

	comment, err := repo.GetComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, comment.Likes)
	assert.Equal(t, 0, comment.Dislikes)
	require.Len(t, repo.Votes("c1"), 1)
}

func TestCastVoteFlipMovesExactlyOneUnit(t *testing.T) {
	repo := NewMemoryCommentRepo(&models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	_, err := repo.CastVote(context.Background(), "c1", "voter", models.VoteLike)
	require.NoError(t, err)

	changed, err := repo.CastVote(context.Background(), "c1", "voter", models.VoteDislike)
	require.NoError(t, err)
	assert.True(t, changed)

	comment, err := repo.GetComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, comment.Likes)
	assert.Equal(t, 1, comment.Dislikes)

	votes := repo.Votes("c1")
	require.Len(t, votes, 1)
	assert.Equal(t, models.VoteDislike, votes[0].Value)
}

func TestCastVoteCountersMatchPersistedVotes(t *testing.T) {
	repo := NewMemoryCommentRepo(&models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	voters := []struct {
		id    string
		value models.VoteValue
	}{
		{"v1", models.VoteLike},
		{"v2", models.VoteLike},
		{"v3", models.VoteDislike},
		{"v1", models.VoteDislike}, // flip
		{"v4", models.VoteLike},
		{"v4", models.VoteLike}, // repeat, no-op
	}
	for _, v := range voters {
		_, err := repo.CastVote(context.Background(), "c1", v.id, v.value)
		require.NoError(t, err)
	}

	likes, dislikes := 0, 0
	for _, vote := range repo.Votes("c1") {
		switch vote.Value {
		case models.VoteLike:
			likes++
		case models.VoteDislike:
			dislikes++
		}
	}

	comment, err := repo.GetComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, likes, comment.Likes)
	assert.Equal(t, dislikes, comment.Dislikes)
	assert.Equal(t, 2, comment.Likes)
	assert.Equal(t, 2, comment.Dislikes)
}

func TestCastVoteUnknownComment(t *testing.T) {
	repo := NewMemoryCommentRepo()
	_, err := repo.CastVote(context.Background(), "missing", "voter", models.VoteLike)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
