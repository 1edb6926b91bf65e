package nearbyRepo

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

// MongoNearbyRepo implements NearbyRepository using MongoDB.
type MongoNearbyRepo struct {
	coll *mongo.Collection
}

// NewMongoNearbyRepo creates a new instance of NearbyRepository using MongoDB.
func NewMongoNearbyRepo() NearbyRepository {
	repo := &MongoNearbyRepo{coll: database.Collection("nearby_markers")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoNearbyRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "parkingId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create nearby marker index: %w", err)
	}
	return nil
}

// LastNotified returns the last-notified timestamps for the given spots.
func (r *MongoNearbyRepo) LastNotified(ctx context.Context, userID string, parkingIDs []string) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(parkingIDs))
	if len(parkingIDs) == 0 {
		return out, nil
	}

	filter := bson.M{
		"userId":    userID,
		"parkingId": bson.M{"$in": parkingIDs},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby markers: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var marker models.NearbyMarker
		if err := cursor.Decode(&marker); err != nil {
			return nil, fmt.Errorf("failed to decode nearby marker: %w", err)
		}
		out[marker.ParkingID] = marker.NotifiedAt
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nearby markers: %w", err)
	}
	return out, nil
}

// StampAll upserts a fresh marker for every given spot in a single
// batched write.
func (r *MongoNearbyRepo) StampAll(ctx context.Context, userID string, parkingIDs []string, at time.Time) error {
	if len(parkingIDs) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(parkingIDs))
	for _, parkingID := range parkingIDs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"userId": userID, "parkingId": parkingID}).
			SetUpdate(bson.M{
				"$set": bson.M{"notifiedAt": at},
				"$setOnInsert": bson.M{
					"userId":    userID,
					"parkingId": parkingID,
				},
			}).
			SetUpsert(true))
	}

	if _, err := r.coll.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to stamp nearby markers: %w", err)
	}
	return nil
}
