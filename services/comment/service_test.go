package comment

import (
	"context"
	"errors"
	"testing"

	commentRepo "spotshare/database/repository/comment"
	userRepo "spotshare/database/repository/user"
	"spotshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingPointsRepo simulates a point-award outage while keeping the
// rest of the user store functional.
type failingPointsRepo struct {
	*userRepo.MemoryUserRepo
}

func (r *failingPointsRepo) AddPoints(ctx context.Context, id string, delta int) error {
	return errors.New("points store unavailable")
}

func newService(users userRepo.UserRepository, comments ...*models.Comment) (*DefaultService, *commentRepo.MemoryCommentRepo) {
	repo := commentRepo.NewMemoryCommentRepo(comments...)
	return &DefaultService{Repo: repo, Users: users}, repo
}

func TestAddComment(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "author"})
	svc, _ := newService(users)

	created, err := svc.Add(context.Background(), "spot-1", "author", "  great spot  ")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "great spot", created.Text)

	listed, err := svc.ListForParking(context.Background(), "spot-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestAddCommentRequiresLoginAndText(t *testing.T) {
	users := userRepo.NewMemoryUserRepo()
	svc, _ := newService(users)

	_, err := svc.Add(context.Background(), "spot-1", "", "hi")
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)

	_, err = svc.Add(context.Background(), "spot-1", "author", "   ")
	assert.Error(t, err)
}

func TestVoteAwardsAuthorPoints(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(
		&models.User{ID: "author", Points: 10},
		&models.User{ID: "voter"},
	)
	svc, repo := newService(users, &models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	require.NoError(t, svc.Vote(context.Background(), "c1", "voter", models.VoteLike))

	author, err := users.GetByID(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, 12, author.Points)

	comment, err := repo.GetComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, comment.Likes)
}

func TestVoteDislikePenalizesAuthor(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(
		&models.User{ID: "author", Points: 10},
		&models.User{ID: "voter"},
	)
	svc, _ := newService(users, &models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	require.NoError(t, svc.Vote(context.Background(), "c1", "voter", models.VoteDislike))

	author, err := users.GetByID(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, 9, author.Points)
}

func TestRepeatVoteAwardsNothing(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(
		&models.User{ID: "author"},
		&models.User{ID: "voter"},
	)
	svc, _ := newService(users, &models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	require.NoError(t, svc.Vote(context.Background(), "c1", "voter", models.VoteLike))
	require.NoError(t, svc.Vote(context.Background(), "c1", "voter", models.VoteLike))
	require.NoError(t, svc.Vote(context.Background(), "c1", "voter", models.VoteLike))

	author, err := users.GetByID(context.Background(), "author")
	require.NoError(t, err)
	assert.Equal(t, 2, author.Points)
}

func TestSelfVoteIsRejected(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "author"})
	svc, repo := newService(users, &models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	err := svc.Vote(context.Background(), "c1", "author", models.VoteLike)
	assert.ErrorIs(t, err, models.ErrSelfVote)

	comment, err := repo.GetComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, comment.Likes)
	assert.Empty(t, repo.Votes("c1"))
}

func TestVoteRequiresLoginAndValidValue(t *testing.T) {
	users := userRepo.NewMemoryUserRepo(&models.User{ID: "author"})
	svc, _ := newService(users, &models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	err := svc.Vote(context.Background(), "c1", "", models.VoteLike)
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)

	err = svc.Vote(context.Background(), "c1", "voter", models.VoteValue("meh"))
	assert.Error(t, err)
}

func TestVoteSurvivesAwardFailure(t *testing.T) {
	users := &failingPointsRepo{MemoryUserRepo: userRepo.NewMemoryUserRepo(
		&models.User{ID: "author"},
		&models.User{ID: "voter"},
	)}
	svc, repo := newService(users, &models.Comment{ID: "c1", ParkingID: "spot-1", AuthorID: "author"})

	// The vote itself lands; the award is best-effort.
	require.NoError(t, svc.Vote(context.Background(), "c1", "voter", models.VoteLike))

	comment, err := repo.GetComment(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, comment.Likes)
	require.Len(t, repo.Votes("c1"), 1)
}
