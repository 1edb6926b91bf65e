package commentRepo

import (
	"context"
	"fmt"
	"time"

	"spotshare/database"
	"spotshare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepo implements CommentRepository using MongoDB.
type MongoCommentRepo struct {
	comments *mongo.Collection
	votes    *mongo.Collection
}

// NewMongoCommentRepo creates a new instance of CommentRepository using MongoDB.
func NewMongoCommentRepo() CommentRepository {
	repo := &MongoCommentRepo{
		comments: database.Collection("comments"),
		votes:    database.Collection("votes"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoCommentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "parkingId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}

	voteIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "commentId", Value: 1}, {Key: "voterId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.votes.Indexes().CreateOne(ctx, voteIndex); err != nil {
		return fmt.Errorf("failed to create vote index: %w", err)
	}
	return nil
}

// CreateComment inserts a new comment.
func (r *MongoCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment retrieves a comment by ID.
func (r *MongoCommentRepo) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"id": commentID}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch comment %s: %w", commentID, err)
	}
	return &comment, nil
}

// ListByParking returns a spot's comments, newest first.
func (r *MongoCommentRepo) ListByParking(ctx context.Context, parkingID string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.comments.Find(ctx, bson.M{"parkingId": parkingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for %s: %w", parkingID, err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// GetVote retrieves a voter's current vote on a comment.
func (r *MongoCommentRepo) GetVote(ctx context.Context, commentID, voterID string) (*models.Vote, error) {
	var vote models.Vote
	filter := bson.M{"commentId": commentID, "voterId": voterID}
	if err := r.votes.FindOne(ctx, filter).Decode(&vote); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch vote: %w", err)
	}
	return &vote, nil
}

// CastVote records the voter's stance inside one transaction: the
// prior vote is read, the counter deltas applied, and the vote
// upserted, so no intermediate state is ever observable.
func (r *MongoCommentRepo) CastVote(ctx context.Context, commentID, voterID string, value models.VoteValue) (bool, error) {
	client := r.comments.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return false, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	changed := false
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		changed = false

		var prior models.VoteValue
		var existing models.Vote
		filter := bson.M{"commentId": commentID, "voterId": voterID}
		if err := r.votes.FindOne(sc, filter).Decode(&existing); err != nil {
			if err != mongo.ErrNoDocuments {
				return nil, fmt.Errorf("failed to read prior vote: %w", err)
			}
		} else {
			prior = existing.Value
		}

		likeDelta, dislikeDelta, v := voteDeltas(prior, value)
		if !v {
			return nil, nil
		}

		res, err := r.comments.UpdateOne(sc,
			bson.M{"id": commentID},
			bson.M{"$inc": bson.M{"likes": likeDelta, "dislikes": dislikeDelta}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to adjust comment counters: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, models.ErrNotFound
		}

		update := bson.M{
			"$set": bson.M{
				"value":     value,
				"updatedAt": time.Now(),
			},
			"$setOnInsert": bson.M{
				"commentId": commentID,
				"voterId":   voterID,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.votes.UpdateOne(sc, filter, update, opts); err != nil {
			return nil, fmt.Errorf("failed to upsert vote: %w", err)
		}

		changed = true
		return nil, nil
	})
	if err != nil {
		return false, fmt.Errorf("vote transaction failed: %w", err)
	}
	return changed, nil
}
