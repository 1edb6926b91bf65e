package commentRepo

import (
	"context"

	"spotshare/models"
)

// CommentRepository defines data access for comments and their votes.
// CastVote is the only path that ever mutates a comment's like/dislike
// counters; the read of the prior vote, the counter deltas and the vote
// upsert all happen inside one atomic transaction.
type CommentRepository interface {
	// CreateComment inserts a new comment.
	CreateComment(ctx context.Context, comment *models.Comment) error
	// GetComment retrieves a comment by ID, or models.ErrNotFound.
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	// ListByParking returns a spot's comments, newest first.
	ListByParking(ctx context.Context, parkingID string) ([]models.Comment, error)
	// GetVote retrieves a voter's current vote on a comment, or
	// models.ErrNotFound when they have not voted.
	GetVote(ctx context.Context, commentID, voterID string) (*models.Vote, error)
	// CastVote records the voter's stance and keeps the comment's
	// counters consistent. Returns changed=false for a same-value
	// re-vote, which is a no-op.
	CastVote(ctx context.Context, commentID, voterID string, value models.VoteValue) (changed bool, err error)
}
