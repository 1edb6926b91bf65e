package parkingRepo

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

// MongoParkingRepo implements ParkingRepository using MongoDB.
type MongoParkingRepo struct {
	coll    *mongo.Collection
	ratings *mongo.Collection
}

// NewMongoParkingRepo creates a new instance of ParkingRepository using MongoDB.
func NewMongoParkingRepo() ParkingRepository {
	repo := &MongoParkingRepo{
		coll:    database.Collection("parkings"),
		ratings: database.Collection("ratings"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoParkingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "address", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "availableSlots", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create parking indexes: %w", err)
	}

	ratingIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "parkingId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.ratings.Indexes().CreateOne(ctx, ratingIndex); err != nil {
		return fmt.Errorf("failed to create rating index: %w", err)
	}
	return nil
}

// GetByID retrieves a parking spot by its unique ID.
func (r *MongoParkingRepo) GetByID(ctx context.Context, id string) (*models.Parking, error) {
	var parking models.Parking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&parking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch parking with id %s: %w", id, err)
	}
	return &parking, nil
}

// Create inserts a new parking spot record. A concurrent publish can
// slip past ExistsByAddress, so the unique address index is the final
// arbiter and its violation surfaces as a duplicate-address error.
func (r *MongoParkingRepo) Create(ctx context.Context, parking *models.Parking) error {
	if _, err := r.coll.InsertOne(ctx, parking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateAddress
		}
		return fmt.Errorf("failed to create parking: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to a parking spot record.
func (r *MongoParkingRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update parking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ExistsByAddress reports whether a spot already exists at the given
// normalized address.
func (r *MongoParkingRepo) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"address": address}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check address %q: %w", address, err)
	}
	return count > 0, nil
}

// ListActiveWithFreeSlots returns up to limit active spots with at
// least one free slot, ordered by creation time for determinism.
func (r *MongoParkingRepo) ListActiveWithFreeSlots(ctx context.Context, limit int64) ([]models.Parking, error) {
	filter := bson.M{
		"active":         true,
		"availableSlots": bson.M{"$gt": 0},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active parkings: %w", err)
	}
	defer cursor.Close(ctx)

	var parkings []models.Parking
	if err := cursor.All(ctx, &parkings); err != nil {
		return nil, fmt.Errorf("failed to decode parkings: %w", err)
	}
	return parkings, nil
}

// UpsertRating records a user's star rating for a spot, overwriting
// any previous rating by the same user.
func (r *MongoParkingRepo) UpsertRating(ctx context.Context, rating *models.Rating) error {
	filter := bson.M{"parkingId": rating.ParkingID, "userId": rating.UserID}
	update := bson.M{"$set": bson.M{
		"stars":     rating.Stars,
		"updatedAt": rating.UpdatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := r.ratings.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// AverageRating returns the mean star rating for a spot.
func (r *MongoParkingRepo) AverageRating(ctx context.Context, parkingID string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"parkingId": parkingID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$stars"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings for %s: %w", parkingID, err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, fmt.Errorf("failed to decode rating aggregate: %w", err)
		}
	}
	return result.Avg, result.Count, nil
}
