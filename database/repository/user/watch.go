package userRepo

import (
	"context"
	"fmt"
	"sync"

	"spotshare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeStreamSub adapts a Mongo change stream on one user's document
// to the Subscription interface.
type changeStreamSub struct {
	updates chan models.User
	cancel  context.CancelFunc
	once    sync.Once

	mu  sync.Mutex
	err error
}

func (s *changeStreamSub) Updates() <-chan models.User { return s.updates }

func (s *changeStreamSub) Cancel() {
	s.once.Do(s.cancel)
}

func (s *changeStreamSub) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Watch opens a change stream filtered to the given user and pumps
// full-document snapshots until the subscription is cancelled.
func (r *MongoUserRepo) Watch(ctx context.Context, id string) (Subscription, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"fullDocument.id": id,
			"operationType":   bson.M{"$in": bson.A{"insert", "update", "replace"}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	streamCtx, cancel := context.WithCancel(context.Background())
	stream, err := r.coll.Watch(streamCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream for user %s: %w", id, err)
	}

	sub := &changeStreamSub{
		updates: make(chan models.User),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			var event struct {
				FullDocument models.User `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				continue
			}
			select {
			case sub.updates <- event.FullDocument:
			case <-streamCtx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			sub.mu.Lock()
			sub.err = err
			sub.mu.Unlock()
		}
	}()

	return sub, nil
}
