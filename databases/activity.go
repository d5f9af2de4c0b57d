package databases

// go generate: mockery --name ActivityDatabase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/court-records-api/models"
)

const activityName = "activities"

// ActivityDatabase contains the methods to use with the append-only activity database
type ActivityDatabase interface {
	InsertOne(ctx context.Context, a models.Activity) error
	Find(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
	EnsureIndexes(ctx context.Context) error
}

type activityDatabase struct {
	db DatabaseHelper
}

// NewActivityDatabase initializes a new instance of activity database with the provided db connection
func NewActivityDatabase(db DatabaseHelper) ActivityDatabase {
	return &activityDatabase{
		db: db,
	}
}

func (a *activityDatabase) InsertOne(ctx context.Context, act models.Activity) error {
	if _, err := a.db.Collection(activityName).InsertOne(ctx, act); err != nil {
		return fmt.Errorf("insert activity %s: %w", act.Action, translate(err))
	}
	return nil
}

// Find returns matching entries newest first, capped at f.Limit when positive
func (a *activityDatabase) Find(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["actorRole"] = f.Role
	}
	if f.ActorID != "" {
		filter["actorId"] = f.ActorID
	}
	if f.TargetID != "" {
		filter["targetId"] = f.TargetID
	}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	// _id breaks ties between entries stamped in the same millisecond
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	activities := []models.Activity{}
	cur, err := a.db.Collection(activityName).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (a *activityDatabase) EnsureIndexes(ctx context.Context) error {
	return a.db.Collection(activityName).CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actorId", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "targetId", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "actorRole", Value: 1}, {Key: "at", Value: -1}}},
	})
}
