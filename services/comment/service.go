package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	commentRepo "spotshare/database/repository/comment"
	userRepo "spotshare/database/repository/user"
	"spotshare/models"
	"spotshare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reputation deltas applied to a comment's author when a vote lands.
const (
	likeAwardPoints      = 2
	dislikePenaltyPoints = -1
)

// Service covers comments on parking spots and the vote accountant.
type Service interface {
	// Add publishes a comment on a spot.
	Add(ctx context.Context, parkingID, authorID, text string) (*models.Comment, error)
	// ListForParking returns a spot's comments, newest first.
	ListForParking(ctx context.Context, parkingID string) ([]models.Comment, error)
	// Vote records voterID's like/dislike stance on a comment.
	Vote(ctx context.Context, commentID, voterID string, value models.VoteValue) error
}

// DefaultService is the production implementation.
type DefaultService struct {
	Repo  commentRepo.CommentRepository
	Users userRepo.UserRepository
}

// Add publishes a comment on a spot.
func (s *DefaultService) Add(ctx context.Context, parkingID, authorID, text string) (*models.Comment, error) {
	if authorID == "" {
		return nil, models.ErrNotLoggedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment text is required")
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		ParkingID: parkingID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

// ListForParking returns a spot's comments, newest first.
func (s *DefaultService) ListForParking(ctx context.Context, parkingID string) ([]models.Comment, error) {
	return s.Repo.ListByParking(ctx, parkingID)
}

// Vote records the voter's stance. The vote and the comment's counters
// are settled in one transaction; the author's reputation points are
// then adjusted as a separate best-effort step. Point totals tolerate
// eventual consistency, vote/counter consistency does not — folding
// the award into the transaction would raise contention for no
// correctness gain.
func (s *DefaultService) Vote(ctx context.Context, commentID, voterID string, value models.VoteValue) error {
	logger := utils.GetLogger()

	if voterID == "" {
		return models.ErrNotLoggedIn
	}
	if !value.Valid() {
		return fmt.Errorf("invalid vote value %q", value)
	}

	target, err := s.Repo.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment %s: %w", commentID, err)
	}
	if target.AuthorID == voterID {
		return models.ErrSelfVote
	}

	changed, err := s.Repo.CastVote(ctx, commentID, voterID, value)
	if err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	if !changed {
		// Same-value re-vote: nothing counted, nothing awarded.
		return nil
	}

	delta := likeAwardPoints
	if value == models.VoteDislike {
		delta = dislikePenaltyPoints
	}
	if err := s.Users.AddPoints(ctx, target.AuthorID, delta); err != nil {
		// A crash or failure here leaves the vote recorded but points
		// unawarded; the vote invariant itself is untouched.
		logger.Warn("vote recorded but point award failed",
			zap.String("commentID", commentID),
			zap.String("authorID", target.AuthorID),
			zap.Int("delta", delta),
			zap.Error(err))
		return nil
	}

	logger.Debug("vote settled",
		zap.String("commentID", commentID),
		zap.String("voterID", voterID),
		zap.String("value", string(value)))
	return nil
}
