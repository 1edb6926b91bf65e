package reservationRepo

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

// MongoReservationRepo implements ReservationRepository using MongoDB
// multi-document transactions.
type MongoReservationRepo struct {
	parkings     *mongo.Collection
	reservations *mongo.Collection
}

// NewMongoReservationRepo creates a new instance of ReservationRepository using MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	repo := &MongoReservationRepo{
		parkings:     database.Collection("parkings"),
		reservations: database.Collection("reservations"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "parkingId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "parkingId", Value: 1}, {Key: "status", Value: 1}}},
	}
	if _, err := r.reservations.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}

// withTxn runs fn inside a Mongo session transaction. Transient
// transaction errors are retried by the driver before surfacing.
func (r *MongoReservationRepo) withTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.parkings.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Reserve atomically claims one slot for (userID, parkingID).
func (r *MongoReservationRepo) Reserve(ctx context.Context, userID, parkingID string) error {
	err := r.withTxn(ctx, func(sc mongo.SessionContext) error {
		var parking models.Parking
		if err := r.parkings.FindOne(sc, bson.M{"id": parkingID}).Decode(&parking); err != nil {
			if err == mongo.ErrNoDocuments {
				// A reservation never implicitly creates a spot.
				return models.ErrNoCapacity
			}
			return fmt.Errorf("failed to read parking %s: %w", parkingID, err)
		}

		next, err := nextAvailableOnReserve(parking.AvailableSlots)
		if err != nil {
			return err
		}

		if _, err := r.parkings.UpdateOne(sc,
			bson.M{"id": parkingID},
			bson.M{"$set": bson.M{"availableSlots": next}},
		); err != nil {
			return fmt.Errorf("failed to decrement slots for %s: %w", parkingID, err)
		}

		filter := bson.M{"userId": userID, "parkingId": parkingID}
		update := bson.M{
			"$set": bson.M{
				"status":     models.ReservationActive,
				"reservedAt": time.Now(),
			},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"parkingId": parkingID,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.reservations.UpdateOne(sc, filter, update, opts); err != nil {
			return fmt.Errorf("failed to upsert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reserve transaction failed: %w", err)
	}
	return nil
}

// Finish atomically restores one slot, capped at capacity, and marks
// the reservation finished.
func (r *MongoReservationRepo) Finish(ctx context.Context, userID, parkingID string) error {
	err := r.withTxn(ctx, func(sc mongo.SessionContext) error {
		// Capacity is a pointer so a document missing the field is
		// treated as unbounded rather than as capacity zero.
		var parking struct {
			AvailableSlots int  `bson:"availableSlots"`
			Capacity       *int `bson:"capacity"`
		}
		spotExists := true
		if err := r.parkings.FindOne(sc, bson.M{"id": parkingID}).Decode(&parking); err != nil {
			if err != mongo.ErrNoDocuments {
				return fmt.Errorf("failed to read parking %s: %w", parkingID, err)
			}
			spotExists = false
		}

		capacity := 0
		if parking.Capacity != nil {
			capacity = *parking.Capacity
		}
		next := nextAvailableOnFinish(parking.AvailableSlots, capacity, parking.Capacity != nil)

		if spotExists {
			if _, err := r.parkings.UpdateOne(sc,
				bson.M{"id": parkingID},
				bson.M{"$set": bson.M{"availableSlots": next}},
			); err != nil {
				return fmt.Errorf("failed to restore slot for %s: %w", parkingID, err)
			}
		}

		filter := bson.M{"userId": userID, "parkingId": parkingID}
		update := bson.M{
			"$set": bson.M{
				"status":     models.ReservationFinished,
				"finishedAt": time.Now(),
			},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"parkingId": parkingID,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.reservations.UpdateOne(sc, filter, update, opts); err != nil {
			return fmt.Errorf("failed to upsert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("finish transaction failed: %w", err)
	}
	return nil
}

// GetByUserAndParking retrieves the reservation for a pair.
func (r *MongoReservationRepo) GetByUserAndParking(ctx context.Context, userID, parkingID string) (*models.Reservation, error) {
	var reservation models.Reservation
	filter := bson.M{"userId": userID, "parkingId": parkingID}
	if err := r.reservations.FindOne(ctx, filter).Decode(&reservation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return &reservation, nil
}

// ListActiveByUser returns the user's active reservations.
func (r *MongoReservationRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	filter := bson.M{"userId": userID, "status": models.ReservationActive}
	cursor, err := r.reservations.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

// CountActiveByParking counts active reservations against a spot.
func (r *MongoReservationRepo) CountActiveByParking(ctx context.Context, parkingID string) (int64, error) {
	filter := bson.M{"parkingId": parkingID, "status": models.ReservationActive}
	count, err := r.reservations.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active reservations for %s: %w", parkingID, err)
	}
	return count, nil
}
