package commentRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"spotshare/models"
)

// MemoryCommentRepo is an in-memory CommentRepository. A single mutex
// serializes CastVote, standing in for the document store's
// transaction primitive. Used by tests and local development.
type MemoryCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
	votes    map[string]*models.Vote
}

// NewMemoryCommentRepo seeds an in-memory repository with the given comments.
func NewMemoryCommentRepo(comments ...*models.Comment) *MemoryCommentRepo {
	repo := &MemoryCommentRepo{
		comments: make(map[string]*models.Comment),
		votes:    make(map[string]*models.Vote),
	}
	for _, c := range comments {
		repo.comments[c.ID] = c
	}
	return repo
}

func voteKey(commentID, voterID string) string {
	return commentID + "/" + voterID
}

// Votes returns a copy of all persisted votes for a comment, for
// consistency assertions in tests.
func (r *MemoryCommentRepo) Votes(commentID string) []models.Vote {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Vote
	for _, vote := range r.votes {
		if vote.CommentID == commentID {
			out = append(out, *vote)
		}
	}
	return out
}

// CreateComment inserts a new comment.
func (r *MemoryCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.ID] = comment
	return nil
}

// GetComment retrieves a comment by ID.
func (r *MemoryCommentRepo) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[commentID]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *comment
	return &out, nil
}

// ListByParking returns a spot's comments, newest first.
func (r *MemoryCommentRepo) ListByParking(ctx context.Context, parkingID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Comment
	for _, comment := range r.comments {
		if comment.ParkingID == parkingID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetVote retrieves a voter's current vote on a comment.
func (r *MemoryCommentRepo) GetVote(ctx context.Context, commentID, voterID string) (*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vote, ok := r.votes[voteKey(commentID, voterID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *vote
	return &out, nil
}

// CastVote records the voter's stance and adjusts the counters under
// one lock acquisition.
func (r *MemoryCommentRepo) CastVote(ctx context.Context, commentID, voterID string, value models.VoteValue) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[commentID]
	if !ok {
		return false, models.ErrNotFound
	}

	var prior models.VoteValue
	key := voteKey(commentID, voterID)
	if existing, ok := r.votes[key]; ok {
		prior = existing.Value
	}

	likeDelta, dislikeDelta, changed := voteDeltas(prior, value)
	if !changed {
		return false, nil
	}

	comment.Likes += likeDelta
	comment.Dislikes += dislikeDelta
	r.votes[key] = &models.Vote{
		CommentID: commentID,
		VoterID:   voterID,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return true, nil
}
