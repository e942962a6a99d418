package stream

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerdesk/crm-backend/internal/models"
)

const closeTimeout = 5 * time.Second

// MongoSource subscribes to the collection's change stream, filtered to
// inserts. Requires a replica set; a standalone mongod rejects Watch, which
// surfaces as a fatal startup error in the caller.
func MongoSource(coll *mongo.Collection) OpenFunc {
	return func(ctx context.Context) (Source, error) {
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: bson.D{{Key: "operationType", Value: OperationInsert}}}},
		}
		cs, err := coll.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", coll.Name(), err)
		}
		return &changeStreamSource{cs: cs}, nil
	}
}

type changeStreamSource struct {
	cs *mongo.ChangeStream
}

func (s *changeStreamSource) Next(ctx context.Context) (Event, error) {
	if !s.cs.Next(ctx) {
		if err := s.cs.Err(); err != nil {
			return Event{}, err
		}
		return Event{}, ctx.Err()
	}
	var doc struct {
		OperationType string `bson:"operationType"`
		DocumentKey   struct {
			ID primitive.ObjectID `bson:"_id"`
		} `bson:"documentKey"`
		FullDocument *models.Notification `bson:"fullDocument"`
	}
	if err := s.cs.Decode(&doc); err != nil {
		return Event{}, fmt.Errorf("decode change event: %w", err)
	}
	return Event{
		ID:           doc.DocumentKey.ID.Hex(),
		Operation:    doc.OperationType,
		Notification: doc.FullDocument,
	}, nil
}

func (s *changeStreamSource) Close(ctx context.Context) error {
	return s.cs.Close(ctx)
}
