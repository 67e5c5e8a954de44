package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamportal/identity-service/internal/core/domain"
)

const eventCollection = "auth_events"

// MongoAuthEventRepository stores the append-only auth audit trail.
type MongoAuthEventRepository struct {
	coll *mongo.Collection
}

func NewAuthEventRepository(db *mongo.Database) *MongoAuthEventRepository {
	return &MongoAuthEventRepository{coll: db.Collection(eventCollection)}
}

type mongoAuthEvent struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Action  string             `bson:"action"`
	Email   string             `bson:"email"`
	UserID  string             `bson:"user_id,omitempty"`
	Success bool               `bson:"success"`
	At      int64              `bson:"at"`
}

func (r *MongoAuthEventRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Action:  string(event.Action),
		Email:   event.Email,
		UserID:  event.UserID,
		Success: event.Success,
		At:      event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

func (r *MongoAuthEventRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuthEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.AuthEvent
	for cursor.Next(ctx) {
		var me mongoAuthEvent
		if err := cursor.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode auth event: %w", err)
		}
		events = append(events, &domain.AuthEvent{
			ID:      me.ID.Hex(),
			Action:  domain.AuthAction(me.Action),
			Email:   me.Email,
			UserID:  me.UserID,
			Success: me.Success,
			At:      unixToTime(me.At),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	return events, nil
}
